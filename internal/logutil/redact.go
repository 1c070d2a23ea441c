package logutil

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

const (
	Redaction = "***"
)

var (
	// PIIFields are never written in clear text to the logs
	PIIFields = []string{"name", "email", "phone", "ssn", "password"}
)

type (
	redactingWriter struct {
		out     io.Writer
		jsonRE  *regexp.Regexp
		replace string
	}
)

// FilterDatum replaces the value of every field=value pair in message
// whose field is listed in fields. Pairs are terminated by separator.
func FilterDatum(fields []string, redaction, message, separator string) string {
	if len(fields) == 0 {
		return message
	}
	re := regexp.MustCompile(fmt.Sprintf(`(%v)=([^%v]*)`, alternation(fields), regexp.QuoteMeta(separator)))
	return re.ReplaceAllString(message, "${1}="+strings.ReplaceAll(redaction, "$", "$$"))
}

// NewRedactingWriter masks string values of the given json keys before
// forwarding each write to out. It expects one json object per write,
// which is how zerolog emits events.
func NewRedactingWriter(out io.Writer, fields ...string) io.Writer {
	if len(fields) == 0 {
		return out
	}
	return &redactingWriter{
		out:     out,
		jsonRE:  regexp.MustCompile(fmt.Sprintf(`"(%v)":"(?:[^"\\]|\\.)*"`, alternation(fields))),
		replace: fmt.Sprintf(`"${1}":"%v"`, Redaction),
	}
}

func (r *redactingWriter) Write(p []byte) (int, error) {
	masked := r.jsonRE.ReplaceAll(p, []byte(r.replace))
	_, err := r.out.Write(masked)
	if err != nil {
		return 0, err
	}
	// callers only care that p was consumed
	return len(p), nil
}

func alternation(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = regexp.QuoteMeta(f)
	}
	return strings.Join(quoted, "|")
}
