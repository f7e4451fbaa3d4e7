package generator

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

var (
	markdownParserInstance goldmark.Markdown
	markdownParserOnce     sync.Once
)

func getMarkdownParser() goldmark.Markdown {
	markdownParserOnce.Do(func() {
		markdownParserInstance = goldmark.New(goldmark.WithExtensions(extension.GFM))
	})
	return markdownParserInstance
}

// CheckMarkdown parses content and verifies that the document opens with a
// level-one heading whose text is exactly name.
func CheckMarkdown(content, name string) error {
	source := []byte(content)
	document := getMarkdownParser().Parser().Parse(text.NewReader(source))

	first := document.FirstChild()
	heading, ok := first.(*ast.Heading)
	if !ok {
		kind := "empty document"
		if first != nil {
			kind = first.Kind().String()
		}
		return fmt.Errorf("%s: expected an H1 heading first, found %s", name, kind)
	}
	if heading.Level != 1 {
		return fmt.Errorf("%s: first heading is level %d, want 1", name, heading.Level)
	}

	var raw bytes.Buffer
	lines := heading.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		raw.Write(seg.Value(source))
	}
	if got := strings.TrimSpace(raw.String()); got != strings.TrimSpace(name) {
		return fmt.Errorf("%s: heading text is %q", name, got)
	}
	return nil
}
