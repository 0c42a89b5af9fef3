package config

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"go.trai.ch/sweep/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// newDynamicDimension compiles every raw value as a template. A rendered value
// is read back as a YAML scalar so numbers stay numbers.
func newDynamicDimension(name string, raws []string) (*domain.DynamicDimension[*template.Template], error) {
	tmpls := make([]*template.Template, 0, len(raws))
	for _, raw := range raws {
		tmpl, err := template.New(name).Option("missingkey=error").Funcs(sprig.FuncMap()).Parse(raw)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "dimension", name)
		}
		tmpls = append(tmpls, tmpl)
	}
	return domain.NewDynamic(name, renderValue, tmpls...), nil
}

func renderValue(tmpl *template.Template, cfg domain.Configuration) (any, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]any(cfg)); err != nil {
		return nil, err
	}
	text := strings.TrimSpace(buf.String())

	var v any
	if err := yaml.Unmarshal([]byte(text), &v); err != nil || v == nil {
		return text, nil //nolint:nilerr // anything that is not a scalar stays a string
	}
	switch v.(type) {
	case map[string]any, []any:
		return text, nil
	default:
		return v, nil
	}
}
