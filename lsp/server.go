// Package lsp serves jianpu scores to editors over the Language Server
// Protocol: parse errors are published as diagnostics and document
// formatting re-balances octave brackets line by line.
package lsp

import (
	"errors"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/jianpu/notation"
)

const lsName = "jianpu"

var log = commonlog.GetLogger("jianpu.lsp")

type Server struct {
	handler protocol.Handler
	server  *server.Server
	version string
	opts    []notation.Option

	mu   sync.RWMutex
	docs map[string]string
}

// NewServer creates a server. opts are passed to every translation, for
// example notation.WithDefaultOrigin.
func NewServer(version string, opts ...notation.Option) *Server {
	ls := &Server{
		version: version,
		opts:    opts,
		docs:    make(map[string]string),
	}

	ls.handler = protocol.Handler{
		Initialize:             ls.initialize,
		Initialized:            ls.initialized,
		Shutdown:               ls.shutdown,
		SetTrace:               ls.setTrace,
		TextDocumentDidOpen:    ls.textDocumentDidOpen,
		TextDocumentDidChange:  ls.textDocumentDidChange,
		TextDocumentDidClose:   ls.textDocumentDidClose,
		TextDocumentDidSave:    ls.textDocumentDidSave,
		TextDocumentFormatting: ls.textDocumentFormatting,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *Server) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    intPtr(int(protocol.TextDocumentSyncKindFull)),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}
	capabilities.DocumentFormattingProvider = true

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Info("client initialized")
	return nil
}

func (ls *Server) shutdown(ctx *glsp.Context) error {
	return nil
}

func (ls *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	ls.update(ctx, params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

func (ls *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.update(ctx, params.TextDocument.URI, textChange.Text)
		}
	}
	return nil
}

func (ls *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	ls.mu.Lock()
	delete(ls.docs, params.TextDocument.URI)
	ls.mu.Unlock()
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (ls *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text != nil {
		ls.update(ctx, params.TextDocument.URI, *params.Text)
	}
	return nil
}

func (ls *Server) textDocumentFormatting(ctx *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	text, ok := ls.document(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}
	return ls.format(params.TextDocument.URI, text), nil
}

func (ls *Server) update(ctx *glsp.Context, uri, text string) {
	ls.mu.Lock()
	ls.docs[uri] = text
	ls.mu.Unlock()

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: ls.diagnose(uri, text),
	})
}

func (ls *Server) document(uri string) (string, bool) {
	ls.mu.RLock()
	defer ls.mu.RUnlock()
	text, ok := ls.docs[uri]
	return text, ok
}

func (ls *Server) options(uri string) []notation.Option {
	opts := append([]notation.Option{}, ls.opts...)
	if path, err := uriToPath(uri); err == nil {
		opts = append(opts, notation.WithFile(filepath.Base(path)))
	}
	return opts
}

// diagnose returns at most one diagnostic: translation stops at the first
// error.
func (ls *Server) diagnose(uri, text string) []protocol.Diagnostic {
	_, err := notation.Translate("", notation.ReferenceKey, []byte(text), ls.options(uri)...)
	if err == nil {
		return []protocol.Diagnostic{}
	}
	log.Debugf("%s: %v", uri, err)

	var (
		rng     protocol.Range
		message = err.Error()
		perr    *notation.Error
	)
	if errors.As(err, &perr) {
		rng = tokenRange(text, perr.Pos, perr.Token)
		message = perr.Err.Error()
	}

	severity := protocol.DiagnosticSeverityError
	source := lsName
	return []protocol.Diagnostic{{
		Range:    rng,
		Severity: &severity,
		Source:   &source,
		Message:  message,
	}}
}

func (ls *Server) format(uri, text string) []protocol.TextEdit {
	out, err := notation.Normalize([]byte(text), ls.options(uri)...)
	if err != nil {
		log.Debugf("%s: not formatting: %v", uri, err)
		return nil
	}
	if string(out) == text {
		return []protocol.TextEdit{}
	}
	return []protocol.TextEdit{{
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End:   endPosition(text),
		},
		NewText: string(out),
	}}
}

// tokenRange converts a 1-based byte position into a protocol range covering
// token.
func tokenRange(text string, pos notation.Position, token string) protocol.Range {
	if !pos.IsValid() {
		return protocol.Range{}
	}
	line := protocol.UInteger(pos.Line - 1)
	start := protocol.UInteger(utf16Column(text, pos.Line, pos.Column-1))
	end := start + protocol.UInteger(len(token))
	if len(token) == 0 {
		end = start + 1
	}
	return protocol.Range{
		Start: protocol.Position{Line: line, Character: start},
		End:   protocol.Position{Line: line, Character: end},
	}
}

// utf16Column converts a byte offset within line n (1-based) into UTF-16
// code units as required by the protocol.
func utf16Column(text string, n, offset int) int {
	lines := strings.Split(text, "\n")
	if n <= 0 || n > len(lines) {
		return offset
	}
	line := lines[n-1]
	if offset > len(line) {
		offset = len(line)
	}
	col := 0
	for _, r := range line[:offset] {
		if r >= 0x10000 {
			col += 2
		} else {
			col++
		}
	}
	return col
}

func endPosition(text string) protocol.Position {
	lines := strings.Split(text, "\n")
	last := len(lines) - 1
	return protocol.Position{
		Line:      protocol.UInteger(last),
		Character: protocol.UInteger(utf16Column(text, last+1, len(lines[last]))),
	}
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func boolPtr(b bool) *bool {
	return &b
}

func intPtr(i int) *protocol.TextDocumentSyncKind {
	v := protocol.TextDocumentSyncKind(i)
	return &v
}
