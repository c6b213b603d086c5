package render

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ha1tch/sqlview/pkg/assets"
	"github.com/ha1tch/sqlview/pkg/config"
	sverrors "github.com/ha1tch/sqlview/pkg/errors"
)

// DefaultScriptPath is the repository-relative path of the script asset
// embedded in every document head.
const DefaultScriptPath = "scripts/results.js"

// Assembler wraps a rendered fragment into a complete, self-contained
// presentation document. It never inspects or modifies the fragment.
type Assembler struct {
	settings   config.Provider
	assets     assets.Resolver
	scriptPath string

	// now supplies the nonce clock; tests pin it for stable output.
	now func() time.Time
}

// NewAssembler creates an assembler reading options from settings and
// locating assets through resolver.
func NewAssembler(settings config.Provider, resolver assets.Resolver) *Assembler {
	return &Assembler{
		settings:   settings,
		assets:     resolver,
		scriptPath: DefaultScriptPath,
		now:        time.Now,
	}
}

// SetScriptPath overrides the script asset path.
func (a *Assembler) SetScriptPath(path string) {
	a.scriptPath = path
}

// Assemble produces the final document: doctype, head with state
// metadata + script reference + stylesheet, and the fragment as body.
func (a *Assembler) Assemble(fragment string, state any) (string, error) {
	blob, err := SerializeState(state)
	if err != nil {
		return "", err
	}

	src, err := a.assets.Resolve(a.scriptPath)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\" />\n")
	fmt.Fprintf(&b, "<meta id=\"state\" data-state=\"%s\" />\n", EscapeAttribute(blob))
	fmt.Fprintf(&b, "<script src=\"%s\" nonce=\"%s\"></script>\n", src, a.nonce())
	b.WriteString("<style>\n")
	b.WriteString(a.stylesheet())
	b.WriteString("</style>\n")
	b.WriteString("</head>\n<body>\n")
	b.WriteString(fragment)
	b.WriteString("\n</body>\n</html>\n")

	return b.String(), nil
}

// nonce returns a per-render token identifying this document instance.
// It only needs to be unique per render, so a timestamp is enough.
func (a *Assembler) nonce() string {
	return fmt.Sprintf("%d", a.now().UnixNano())
}

// SerializeState serializes the caller-supplied opaque state to text.
// Serialization and attribute escaping are separate steps; compose with
// EscapeAttribute before embedding.
func SerializeState(state any) (string, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return "", sverrors.Wrap(err, sverrors.ErrCodeStateSerialize, "serialize host state").
			WithOp("render.SerializeState").
			Err()
	}
	return string(data), nil
}

// EscapeAttribute escapes every double quote so a serialized value can
// sit inside a double-quoted attribute without breaking the delimiter.
func EscapeAttribute(s string) string {
	return strings.ReplaceAll(s, `"`, "&quot;")
}

// UnescapeAttribute reverses EscapeAttribute.
func UnescapeAttribute(s string) string {
	return strings.ReplaceAll(s, "&quot;", `"`)
}
