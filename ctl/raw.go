package ctl

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	dsctl "github.com/dsctl/dsctl"
	"github.com/dsctl/dsctl/client"
	"github.com/dsctl/dsctl/dotted"
	"github.com/dsctl/dsctl/errors"
)

// RawCommand hits an arbitrary API endpoint and renders whatever comes
// back. It is the escape hatch for endpoints no subcommand covers yet.
type RawCommand struct {
	Profile  string
	Method   string
	Endpoint string

	// Query holds repeated "key=value" pairs forwarded verbatim.
	Query []string

	// Body is a JSON literal, or "FILE:<path>" to read the JSON from a
	// file.
	Body string

	// BasePath overrides the API version prefix for endpoints outside
	// the usual one.
	BasePath string

	Output OutputOptions
	Client *client.Client

	*dsctl.CmdIO
}

func NewRawCommand(stdin io.Reader, stdout, stderr io.Writer) *RawCommand {
	return &RawCommand{CmdIO: dsctl.NewCmdIO(stdin, stdout, stderr)}
}

// rawMethods maps the method argument onto HTTP verbs.
var rawMethods = map[string]string{
	"get":    http.MethodGet,
	"post":   http.MethodPost,
	"put":    http.MethodPut,
	"delete": http.MethodDelete,
}

func (cmd *RawCommand) Run(ctx context.Context) error {
	method, ok := rawMethods[strings.ToLower(cmd.Method)]
	if !ok {
		return errors.Errorf("unknown method %q, expected get, post, put or delete", cmd.Method)
	}

	var opts []client.Option
	if cmd.BasePath != "" {
		opts = append(opts, client.OptPathBase(cmd.BasePath))
	}
	c, err := commandClient(cmd.Profile, cmd.Client, cmd.Logger(), opts...)
	if err != nil {
		return err
	}

	pairs, err := parsePairs(cmd.Query)
	if err != nil {
		return err
	}
	params := url.Values{}
	for k, v := range pairs {
		params.Set(k, v)
	}

	body, err := rawBody(cmd.Body)
	if err != nil {
		return err
	}

	endpoint := cmd.Endpoint
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}

	result, err := c.Raw(ctx, method, endpoint, params, body)
	if err != nil {
		return err
	}
	return writeRaw(cmd.Stdout, result, cmd.Output)
}

// rawBody decodes the body flag: empty means no body, a FILE: prefix
// reads the JSON from that file, anything else is an inline JSON
// literal.
func rawBody(spec string) (interface{}, error) {
	if spec == "" {
		return nil, nil
	}
	raw := []byte(spec)
	if strings.HasPrefix(spec, "FILE:") {
		var err error
		raw, err = os.ReadFile(strings.TrimPrefix(spec, "FILE:"))
		if err != nil {
			return nil, errors.Wrap(err, "reading body file")
		}
	}
	var body interface{}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, errors.Wrap(err, "parsing body as JSON")
	}
	return body, nil
}

// writeRaw renders a raw result: document lists go through the usual
// table machinery, single documents through writeDoc, anything else
// (scalars, mixed arrays, empty responses) as plain JSON.
func writeRaw(w io.Writer, result interface{}, opts OutputOptions) error {
	switch v := result.(type) {
	case nil:
		return nil
	case dotted.Document:
		return writeDoc(w, v, opts)
	case []interface{}:
		docs := make([]dotted.Document, 0, len(v))
		for _, item := range v {
			doc, ok := item.(dotted.Document)
			if !ok {
				return writeJSON(w, v)
			}
			docs = append(docs, doc)
		}
		return writeDocs(w, docs, opts, "id")
	default:
		return writeJSON(w, v)
	}
}
