package extract

import (
	"encoding/json"

	"github.com/joseph-ayodele/docextract/constants"
)

// Result is the outcome of one extraction attempt: either extracted fields
// tagged with the method that produced them, or a failure message with the
// provider's raw reply when one exists. The zero value is not valid; build
// results with Ok or Fail.
type Result struct {
	fields  Object
	method  constants.Method
	failure *Failure
}

// Failure describes an unsuccessful extraction.
type Failure struct {
	Message     string
	RawResponse string // unparsed provider reply, if any
}

// Ok returns a successful result. Reserved output keys present in fields are
// dropped so the serialized form can never look like a failure.
func Ok(fields Object, method constants.Method) Result {
	f := fields.Clone()
	for _, k := range ReservedKeys(fields) {
		f.Delete(k)
	}
	return Result{fields: f, method: method}
}

// Fail returns a failed result.
func Fail(message, rawResponse string) Result {
	return Result{failure: &Failure{Message: message, RawResponse: rawResponse}}
}

// ReservedKeys lists the keys of fields that collide with result metadata keys.
func ReservedKeys(fields Object) []string {
	var out []string
	for _, k := range []string{constants.KeyMethod, constants.KeyError, constants.KeyRawResponse} {
		if fields.Has(k) {
			out = append(out, k)
		}
	}
	return out
}

// Failed reports whether the result carries an error.
func (r Result) Failed() bool { return r.failure != nil }

// Method returns the producing method, or "" for failures.
func (r Result) Method() constants.Method { return r.method }

// Fields returns a copy of the extracted fields (empty for failures).
func (r Result) Fields() Object { return r.fields.Clone() }

// Failure returns the failure details, or nil on success.
func (r Result) Failure() *Failure {
	if r.failure == nil {
		return nil
	}
	f := *r.failure
	return &f
}

// ErrorMessage returns the failure message, or "" on success.
func (r Result) ErrorMessage() string {
	if r.failure == nil {
		return ""
	}
	return r.failure.Message
}

// Object renders the result as the ordered JSON object that is emitted to
// callers: fields followed by "method", or "error" plus optional "raw_response".
func (r Result) Object() Object {
	if r.failure != nil {
		var o Object
		o.SetString(constants.KeyError, r.failure.Message)
		if r.failure.RawResponse != "" {
			o.SetString(constants.KeyRawResponse, r.failure.RawResponse)
		}
		return o
	}
	o := r.fields.Clone()
	o.SetString(constants.KeyMethod, string(r.method))
	return o
}

// MarshalJSON implements json.Marshaler.
func (r Result) MarshalJSON() ([]byte, error) {
	return r.Object().MarshalJSON()
}

var _ json.Marshaler = Result{}
