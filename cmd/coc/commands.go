package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/bndr/gotabulate"

	coc_client "github.com/miguelcb84/go-coc-client"
	"github.com/miguelcb84/go-coc-client/core"
	"github.com/miguelcb84/go-coc-client/openapi_schema"
)

// Globals are the flags shared by every command.
type Globals struct {
	Config     string `help:"YAML config file; environment references are expanded." type:"existingfile" short:"c"`
	Token      string `help:"API key." env:"COC_API_KEY"`
	Endpoint   string `help:"API endpoint, without the version segment." env:"COC_ENDPOINT"`
	ApiVersion string `help:"API version segment." name:"api-version"`
	Strict     bool   `help:"Reject calls to undocumented routes before sending them."`

	stdout io.Writer `kong:"-"`
}

// client builds the API client from the config file, then applies the flags on top.
func (g *Globals) client() (*coc_client.ClashOfClans, error) {
	config := &coc_client.CocConfig{}
	if g.Config != "" {
		loaded, err := coc_client.LoadConfig(g.Config)
		if err != nil {
			return nil, err
		}
		config = loaded
	}
	if g.Token != "" {
		config.BearerToken = g.Token
	}
	if g.Endpoint != "" {
		config.Endpoint = g.Endpoint
	}
	if g.ApiVersion != "" {
		config.ApiVersion = g.ApiVersion
	}
	if g.Strict {
		config.StrictRoutes = true
	}
	return coc_client.NewClashOfClans(config)
}

type VersionCmd struct{}

func (c *VersionCmd) Run(g *Globals) error {
	_, err := fmt.Fprintln(g.stdout, coc_client.ClientVersion())
	return err
}

type GetCmd struct {
	Segments []string          `arg:"" help:"Path segments after the API version."`
	Params   map[string]string `help:"Query parameter as key=value (repeatable)." short:"p"`
	Format   string            `help:"Output format." enum:"table,json,msgpack" default:"table" short:"f"`
	Limit    int               `help:"Page size sent as the limit parameter."`
	All      bool              `help:"Follow the after cursors and print every page."`
}

func (c *GetCmd) call(coc *coc_client.ClashOfClans) *core.ApiCall {
	segments := make([]any, len(c.Segments))
	for i, seg := range c.Segments {
		segments[i] = seg
	}
	call := coc.Call(segments...)
	if len(c.Params) > 0 {
		params := core.Params{}
		for k, v := range c.Params {
			params[k] = v
		}
		call = call.Query(params)
	}
	return call
}

func (c *GetCmd) Run(g *Globals) error {
	coc, err := g.client()
	if err != nil {
		return err
	}
	ctx := context.Background()
	call := c.call(coc)

	if c.All {
		records, err := coc.Paginate(call, c.Limit).All(ctx)
		if err != nil {
			return err
		}
		return render(g.stdout, c.Format, records)
	}

	if c.Limit > 0 {
		call = call.Query(core.Params{"limit": c.Limit})
	}
	result, err := call.Get(ctx)
	if err != nil {
		return err
	}
	switch typed := result.(type) {
	case *core.RecordResult:
		if apiErr := typed.AsError(); apiErr != nil {
			return apiErr
		}
		return render(g.stdout, c.Format, typed.Record)
	case *core.ListResult:
		if err = render(g.stdout, c.Format, typed.Items); err != nil {
			return err
		}
		if next := typed.Next(); next != nil && c.Format == "table" {
			_, err = fmt.Fprintf(g.stdout, "\nnext page: --params after=%v\n", next.UriArgs()["after"])
		}
		return err
	case *core.RawResponse:
		if typed.HasError() {
			return &core.ApiError{Method: typed.Method, URL: typed.URL, StatusCode: typed.Status, Message: string(typed.Body)}
		}
		if c.Format == "table" {
			_, err = fmt.Fprintln(g.stdout, typed.PrettyJson("  "))
			return err
		}
		_, err = g.stdout.Write(typed.Body)
		return err
	case *core.MalformedResult:
		return typed.Err
	}
	return fmt.Errorf("unexpected result %s", result.Kind())
}

// msgpackRenderable is implemented by Record and RecordSet.
type msgpackRenderable interface {
	core.Renderable
	ToMsgpack() ([]byte, error)
}

func render(w io.Writer, format string, value msgpackRenderable) error {
	switch format {
	case "json":
		_, err := fmt.Fprintln(w, value.PrettyJson("  "))
		return err
	case "msgpack":
		data, err := value.ToMsgpack()
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}
	_, err := fmt.Fprintln(w, value.PrettyTable())
	return err
}

type RoutesCmd struct {
	Filter string `arg:"" optional:"" help:"Only show routes containing this text."`
}

func (c *RoutesCmd) Run(g *Globals) error {
	routes, err := openapi_schema.Routes()
	if err != nil {
		return err
	}
	var rows [][]any
	for _, route := range routes {
		if c.Filter != "" && !strings.Contains(route.Path, c.Filter) {
			continue
		}
		for _, method := range route.Methods() {
			rows = append(rows, []any{method, route.Path, route.Summary(method)})
		}
	}
	if len(rows) == 0 {
		_, err = fmt.Fprintln(g.stdout, "no routes found")
		return err
	}
	t := gotabulate.Create(rows)
	t.SetHeaders([]string{"method", "path", "summary"})
	t.SetAlign("left")
	_, err = fmt.Fprintln(g.stdout, t.Render("simple"))
	return err
}
