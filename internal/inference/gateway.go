// Package inference executes schema-constrained calls against an external
// natural-language inference capability. Every structured artifact in the
// system is produced through Invoke, which renders a prompt template, sends
// it, and strictly validates the returned JSON before anyone acts on it.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"text/template"

	"github.com/rs/zerolog"

	"telemed-ai/internal/errs"
)

// Contract is one unit of gateway work: a prompt template with its input
// variables. The expected output schema is the type parameter of Invoke.
type Contract struct {
	// Name identifies the call in logs and error messages.
	Name string
	// System is the static system instruction, including the JSON schema
	// description the model must follow.
	System string
	// User is the per-call message template rendered with Vars.
	User *template.Template
	// Vars is the data rendered into User.
	Vars any
}

// Validatable is implemented by every output schema type.
type Validatable interface {
	Validate() error
}

type Gateway struct {
	completer Completer
	log       zerolog.Logger
}

func NewGateway(completer Completer, log zerolog.Logger) *Gateway {
	return &Gateway{completer: completer, log: log}
}

// Invoke renders the contract, performs a single completion attempt, and
// decodes the raw output into T. Any malformed structure, type mismatch, or
// failed validation yields a schema violation; no partially-parsed value is
// ever returned. Callers needing resilience wrap Invoke with their own
// bounded retry.
func Invoke[T Validatable](ctx context.Context, g *Gateway, c Contract) (T, error) {
	var zero T

	user, err := renderTemplate(c.User, c.Vars)
	if err != nil {
		return zero, errs.Wrap(errs.KindValidation, err, c.Name+": render prompt")
	}

	raw, err := g.completer.Complete(ctx, c.System, user)
	if err != nil {
		return zero, errs.Wrap(errs.KindExternalService, err, c.Name)
	}

	var out T
	if err := json.Unmarshal([]byte(extractJSON(raw)), &out); err != nil {
		g.log.Warn().Str("contract", c.Name).Err(err).Msg("inference output failed to decode")
		return zero, errs.Wrap(errs.KindSchemaViolation, err, c.Name+": decode output")
	}
	if err := out.Validate(); err != nil {
		g.log.Warn().Str("contract", c.Name).Err(err).Msg("inference output failed validation")
		return zero, errs.Wrap(errs.KindSchemaViolation, err, c.Name)
	}
	return out, nil
}

func renderTemplate(t *template.Template, vars any) (string, error) {
	if t == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, vars); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// extractJSON strips markdown code fences and surrounding prose the model
// sometimes wraps around its JSON object.
func extractJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return s
	}
	end := strings.LastIndexAny(s, "}]")
	if end < start {
		return s
	}
	return s[start : end+1]
}
