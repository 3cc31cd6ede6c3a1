// Package header renders a credential table as the C header compiled into
// Particle device firmware.
package header

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/umeshlumbhani/wifi-creds/internal/models"
)

// Redacted replaces passwords when Options.Redact is set.
const Redacted = "********"

// Options controls rendering
type Options struct {
	// Path is printed in the leading comment. A "*/" in it is written as
	// "*\/" so it cannot end the comment early.
	Path string
	// Redact replaces every non-empty password with Redacted.
	Redact bool
}

type entry struct {
	SSID     string
	Password string
	AuthType string
	Cipher   string
	Last     bool
}

var tmpl = template.Must(template.New("wifi_creds.h").Funcs(template.FuncMap{
	"cstr": Quote,
}).Parse(`/*
 * {{.Path}}
 *
 * Generated by wifi-creds. Do not edit.
 */

// See https://docs.particle.io/reference/firmware/photon/#setcredentials- for details
struct credentials { char *ssid; char *password; int authType; int cipher; };

const credentials wifiCreds[] = {
  // Last entry will be tried first when connecting. Max {{.Max}} for Photon.
{{- range .Entries}}
  {.ssid={{cstr .SSID}}, .password={{cstr .Password}}, .authType={{.AuthType}}, .cipher={{.Cipher}}}{{if not .Last}},{{end}}
{{- end}}
};
`))

// Render writes t to w in declaration order.
func Render(w io.Writer, t models.Table, opts Options) error {
	if opts.Path == "" {
		opts.Path = "src/wifi_creds.h"
	}
	opts.Path = strings.ReplaceAll(opts.Path, "*/", `*\/`)
	entries := make([]entry, 0, t.Len())
	for i, c := range t.All() {
		pwd := c.Password
		if opts.Redact && pwd != "" {
			pwd = Redacted
		}
		entries = append(entries, entry{
			SSID:     c.SSID,
			Password: pwd,
			AuthType: c.AuthType.Firmware(),
			Cipher:   c.Cipher.Firmware(),
			Last:     i == t.Len()-1,
		})
	}
	err := tmpl.Execute(w, struct {
		Path    string
		Max     int
		Entries []entry
	}{opts.Path, models.MaxStoredNetworks, entries})
	if err != nil {
		return fmt.Errorf("found error on rendering header: %w", err)
	}
	return nil
}

// Quote returns s as a C string literal. Bytes outside printable ASCII are
// written as three digit octal escapes so they never merge with a following
// digit.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"' || c == '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\t':
			b.WriteString(`\t`)
		case c == '?' && i+1 < len(s) && s[i+1] == '?':
			// break up trigraphs
			b.WriteString(`?\`)
		case c < 0x20 || c >= 0x7f:
			fmt.Fprintf(&b, `\%03o`, c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}
