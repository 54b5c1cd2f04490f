package argument

import (
	"fmt"
	"strings"

	"github.com/Iron-Ham/persuade/internal/errors"
	"github.com/Iron-Ham/persuade/internal/preference"
)

// Argument is a claim for (Decision true) or against (Decision false) an
// item, justified by premises. Value premises come before comparisons.
type Argument struct {
	Item     *preference.Item
	Decision bool
	Premises []Premise
}

// Supports reports whether the argument argues for its item.
func (a Argument) Supports() bool { return a.Decision }

// Subject returns the criterion of the first value premise: the property
// the argument rests on.
func (a Argument) Subject() (preference.Criterion, bool) {
	for _, p := range a.Premises {
		if !p.Comparison {
			return p.Criterion, true
		}
	}
	return 0, false
}

// ValuePremises returns the value premises in order.
func (a Argument) ValuePremises() []Premise {
	var out []Premise
	for _, p := range a.Premises {
		if !p.Comparison {
			out = append(out, p)
		}
	}
	return out
}

// String renders the argument as "[not ]Item <- C=V, A>B".
func (a Argument) String() string {
	var b strings.Builder
	if !a.Decision {
		b.WriteString("not ")
	}
	if a.Item != nil {
		b.WriteString(a.Item.Name())
	}
	b.WriteString(" <- ")
	parts := make([]string, 0, len(a.Premises))
	for _, p := range a.Premises {
		if !p.Comparison {
			parts = append(parts, p.String())
		}
	}
	for _, p := range a.Premises {
		if p.Comparison {
			parts = append(parts, p.String())
		}
	}
	b.WriteString(strings.Join(parts, ", "))
	return b.String()
}

// Parse reads an argument in String form, resolving the item in cat.
func Parse(raw string, cat *preference.Catalog) (Argument, error) {
	head, body, ok := strings.Cut(raw, "<-")
	if !ok {
		return Argument{}, fmt.Errorf("%w: missing '<-' in %q", errors.ErrMalformedArgument, raw)
	}

	arg := Argument{Decision: true}
	name := strings.TrimSpace(head)
	if rest, found := strings.CutPrefix(name, "not "); found {
		arg.Decision = false
		name = strings.TrimSpace(rest)
	}
	item, ok := cat.Item(name)
	if !ok {
		return Argument{}, errors.NewNotFoundError("item", name).WithCause(errors.ErrItemNotFound)
	}
	arg.Item = item

	for _, field := range strings.Split(body, ",") {
		if strings.TrimSpace(field) == "" {
			continue
		}
		p, err := ParsePremise(field)
		if err != nil {
			return Argument{}, err
		}
		arg.Premises = append(arg.Premises, p)
	}
	if len(arg.Premises) == 0 {
		return Argument{}, fmt.Errorf("%w: no premises in %q", errors.ErrMalformedArgument, raw)
	}
	return arg, nil
}
