// Package task holds the Wiro task model: the handle returned on submission,
// the record returned by the detail endpoint, status classification and
// result extraction.
package task

import (
	"bytes"
	"encoding/json"
)

// Handle identifies a submitted task. SocketAccessToken is the preferred
// lookup key when both are present.
type Handle struct {
	TaskID            string `json:"taskid,omitempty"`
	SocketAccessToken string `json:"socketaccesstoken,omitempty"`
}

// IsZero reports whether neither identifier is set.
func (h Handle) IsZero() bool {
	return h.TaskID == "" && h.SocketAccessToken == ""
}

// Record is one snapshot of a task as returned by Task/Detail.
type Record struct {
	ID             FlexString `json:"id"`
	UUID           string     `json:"uuid,omitempty"`
	SocketToken    string     `json:"socketaccesstoken,omitempty"`
	Status         string     `json:"status"`
	Outputs        []Output   `json:"outputs"`
	DebugOutput    string     `json:"debugoutput,omitempty"`
	DebugError     string     `json:"debugerror,omitempty"`
	CreateTime     FlexString `json:"createtime,omitempty"`
	StartTime      FlexString `json:"starttime,omitempty"`
	EndTime        FlexString `json:"endtime,omitempty"`
	ElapsedSeconds FlexString `json:"elapsedseconds,omitempty"`
}

// Phase classifies the record's status.
func (r Record) Phase() Phase {
	return Classify(r.Status)
}

// Output is one item of a record's outputs list. Content is kept raw
// because its shape depends on the tool.
type Output struct {
	Name        string          `json:"name,omitempty"`
	ContentType string          `json:"contenttype"`
	Content     json.RawMessage `json:"content,omitempty"`
	URL         string          `json:"url,omitempty"`
}

// Answer returns the "answer" field of a raw content object. The boolean is
// false when content is not an object, has no answer, or the answer is
// neither a string nor a list of strings.
func (o Output) Answer() (Answer, bool) {
	raw := bytes.TrimSpace(o.Content)
	if len(raw) == 0 || raw[0] != '{' {
		return Answer{}, false
	}

	var content struct {
		Answer json.RawMessage `json:"answer"`
	}
	if err := json.Unmarshal(raw, &content); err != nil {
		return Answer{}, false
	}

	var a Answer
	if err := a.UnmarshalJSON(content.Answer); err != nil {
		return Answer{}, false
	}
	if a.IsEmpty() {
		return Answer{}, false
	}
	return a, true
}

// Answer is a model answer delivered either as one string or as a list of
// chunks.
type Answer struct {
	Text   string
	Chunks []string
	IsList bool
}

// UnmarshalJSON accepts a string or an array of strings. Anything else
// (including null) is an error.
func (a *Answer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return errNoAnswer
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Answer{Text: s}
		return nil
	case '[':
		var chunks []string
		if err := json.Unmarshal(data, &chunks); err != nil {
			return err
		}
		*a = Answer{Chunks: chunks, IsList: true}
		return nil
	default:
		return errNoAnswer
	}
}

// IsEmpty reports whether the answer is an empty string or an empty list.
func (a Answer) IsEmpty() bool {
	if a.IsList {
		return len(a.Chunks) == 0
	}
	return a.Text == ""
}

// String renders list answers with a blank line between chunks.
func (a Answer) String() string {
	if a.IsList {
		return joinChunks(a.Chunks)
	}
	return a.Text
}

// FlexString decodes a JSON string or number into its textual form. The API
// is not consistent about quoting identifiers and timestamps.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

// Truthy decodes any JSON value by its truthiness: false, null, zero, ""
// and empty arrays or objects are false, everything else is true. Used for
// the API's "result" flag.
type Truthy bool

func (t *Truthy) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case nil:
		*t = false
	case bool:
		*t = Truthy(x)
	case float64:
		*t = x != 0
	case string:
		*t = x != ""
	case []any:
		*t = len(x) > 0
	case map[string]any:
		*t = len(x) > 0
	default:
		*t = true
	}
	return nil
}
