package task

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		status string
		want   Phase
	}{
		{"task_queue", PhaseRunning},
		{"task_accept", PhaseRunning},
		{"task_assign", PhaseRunning},
		{"task_preprocess_start", PhaseRunning},
		{"task_preprocess_end", PhaseRunning},
		{"task_start", PhaseRunning},
		{"task_output", PhaseRunning},
		{"task_postprocess_start", PhaseRunning},
		{"task_end", PhaseRunning},
		{"task_postprocess_end", PhaseSucceeded},
		{"task_cancel", PhaseCancelled},
		{"task_exploded", PhaseUnknown},
		{"", PhaseUnknown},
		{"TASK_QUEUE", PhaseUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			got := Classify(tt.status)
			if got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestPhase_IsTerminal(t *testing.T) {
	assert.True(t, PhaseSucceeded.IsTerminal())
	assert.True(t, PhaseCancelled.IsTerminal())
	assert.False(t, PhaseRunning.IsTerminal())
	assert.False(t, PhaseUnknown.IsTerminal())
	assert.Equal(t, "cancelled", PhaseCancelled.String())
	assert.Equal(t, "Phase(42)", Phase(42).String())
}

func TestRecord_Decode(t *testing.T) {
	raw := `{
		"id": 2221,
		"uuid": "15bce51f-442f-4f44-a71d-13c6374a62bd",
		"status": "task_postprocess_end",
		"debugoutput": "",
		"createtime": "1714482129",
		"elapsedseconds": 6.5,
		"outputs": [
			{"name": "0.png", "contenttype": "image/png", "url": "https://cdn.example/0.png"},
			{"contenttype": "raw", "content": {"answer": ["a", "b"]}}
		]
	}`

	var rec Record
	require.NoError(t, json.Unmarshal([]byte(raw), &rec))

	want := Record{
		ID:             "2221",
		UUID:           "15bce51f-442f-4f44-a71d-13c6374a62bd",
		Status:         "task_postprocess_end",
		CreateTime:     "1714482129",
		ElapsedSeconds: "6.5",
		Outputs: []Output{
			{Name: "0.png", ContentType: "image/png", URL: "https://cdn.example/0.png"},
			{ContentType: "raw", Content: json.RawMessage(`{"answer": ["a", "b"]}`)},
		},
	}
	if diff := cmp.Diff(want, rec); diff != "" {
		t.Errorf("decoded record mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, PhaseSucceeded, rec.Phase())
}

func TestOutput_Answer(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		ok      bool
	}{
		{"string answer", `{"answer": "hello"}`, "hello", true},
		{"list answer", `{"answer": ["a", "b", "c"]}`, "a\n\nb\n\nc", true},
		{"single chunk", `{"answer": ["only"]}`, "only", true},
		{"empty string", `{"answer": ""}`, "", false},
		{"empty list", `{"answer": []}`, "", false},
		{"null answer", `{"answer": null}`, "", false},
		{"numeric answer", `{"answer": 7}`, "", false},
		{"mixed list", `{"answer": ["a", 1]}`, "", false},
		{"no answer field", `{"text": "x"}`, "", false},
		{"content is string", `"just text"`, "", false},
		{"no content", ``, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Output{ContentType: ContentTypeRaw, Content: json.RawMessage(tt.content)}
			a, ok := out.Answer()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, a.String())
		})
	}
}

func rawOutput(content string) Output {
	return Output{ContentType: ContentTypeRaw, Content: json.RawMessage(content)}
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want string
	}{
		{
			name: "raw answer list joined with blank line",
			rec:  Record{Outputs: []Output{rawOutput(`{"answer": ["a", "b"]}`)}},
			want: "a\n\nb",
		},
		{
			name: "raw answer string as-is",
			rec:  Record{Outputs: []Output{rawOutput(`{"answer": "plain"}`)}},
			want: "plain",
		},
		{
			name: "url output",
			rec:  Record{Outputs: []Output{{ContentType: "image/png", URL: "https://cdn.example/x.png"}}},
			want: "https://cdn.example/x.png",
		},
		{
			name: "first match wins over later answer",
			rec: Record{Outputs: []Output{
				{ContentType: "image/png", URL: "https://cdn.example/first.png"},
				rawOutput(`{"answer": "later"}`),
			}},
			want: "https://cdn.example/first.png",
		},
		{
			name: "raw without answer falls through to its url",
			rec: Record{Outputs: []Output{
				{ContentType: ContentTypeRaw, Content: json.RawMessage(`{}`), URL: "https://cdn.example/raw.txt"},
			}},
			want: "https://cdn.example/raw.txt",
		},
		{
			name: "non-matching items are skipped",
			rec: Record{Outputs: []Output{
				{ContentType: "text/plain"},
				rawOutput(`{"answer": []}`),
				rawOutput(`{"answer": "third"}`),
			}},
			want: "third",
		},
		{
			name: "answer beats url on the same raw item",
			rec: Record{Outputs: []Output{
				{ContentType: ContentTypeRaw, Content: json.RawMessage(`{"answer": "text"}`), URL: "https://cdn.example/ignored"},
			}},
			want: "text",
		},
		{
			name: "debug output fallback",
			rec:  Record{Outputs: []Output{{ContentType: "text/plain"}}, DebugOutput: "fallback"},
			want: "fallback",
		},
		{
			name: "empty first match falls back to debug output",
			rec: Record{
				Outputs:     []Output{rawOutput(`{"answer": [""]}`), rawOutput(`{"answer": "never"}`)},
				DebugOutput: "debug",
			},
			want: "debug",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.rec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtract_NoOutput(t *testing.T) {
	recs := []Record{
		{},
		{Outputs: []Output{{ContentType: "text/plain"}}},
		{Outputs: []Output{rawOutput(`{"answer": [""]}`)}},
	}
	for _, rec := range recs {
		_, err := Extract(rec)
		if !errors.Is(err, ErrNoOutput) {
			t.Errorf("Extract(%+v) error = %v, want ErrNoOutput", rec, err)
		}
	}
	assert.EqualError(t, ErrNoOutput, "No output found in task result")
}

func TestHandle_IsZero(t *testing.T) {
	assert.True(t, Handle{}.IsZero())
	assert.False(t, Handle{TaskID: "T1"}.IsZero())
	assert.False(t, Handle{SocketAccessToken: "S1"}.IsZero())
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{`true`, true},
		{`false`, false},
		{`1`, true},
		{`0`, false},
		{`"ok"`, true},
		{`""`, false},
		{`null`, false},
		{`[1]`, true},
		{`[]`, false},
		{`{"a": 1}`, true},
		{`{}`, false},
	}

	for _, tt := range tests {
		var v struct {
			Result Truthy `json:"result"`
		}
		require.NoError(t, json.Unmarshal([]byte(`{"result": `+tt.raw+`}`), &v), tt.raw)
		assert.Equal(t, tt.want, bool(v.Result), "result %s", tt.raw)
	}
}
