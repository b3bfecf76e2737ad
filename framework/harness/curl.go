package harness

import (
	"net/http"
	"strings"

	"github.com/alessio/shellescape"
)

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}

// curlCommand renders a request as a shell command that reproduces it.
func curlCommand(req *http.Request, body []byte) string {
	var b commandBuilder
	b.add("curl", "-X", req.Method)
	if ct := req.Header.Get("Content-Type"); ct != "" {
		b.add("-H", "Content-Type: "+ct)
	}
	if body != nil {
		b.add("-d", string(body))
	}
	b.add(req.URL.String())
	return b.String()
}
