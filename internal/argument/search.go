package argument

import (
	"github.com/Iron-Ham/persuade/internal/preference"
)

// SupportingPremises lists the value premises in favour of item, most
// important criterion first.
func SupportingPremises(p *preference.Profile, item *preference.Item) []Premise {
	var out []Premise
	for _, c := range p.Order() {
		if v := item.Value(c); v.IsGood() {
			out = append(out, ValuePremise(c, v))
		}
	}
	return out
}

// AttackingPremises lists the value premises against item, most important
// criterion first.
func AttackingPremises(p *preference.Profile, item *preference.Item) []Premise {
	var out []Premise
	for _, c := range p.Order() {
		if v := item.Value(c); v.IsBad() {
			out = append(out, ValuePremise(c, v))
		}
	}
	return out
}

// BestSupport builds the strongest fresh argument for item: the most
// important criterion, under p, on which item rates well and whose premise
// is not in excluded.
func BestSupport(p *preference.Profile, item *preference.Item, excluded *PremiseSet) (Argument, bool) {
	for _, premise := range SupportingPremises(p, item) {
		if excluded.Contains(premise) {
			continue
		}
		return Argument{Item: item, Decision: true, Premises: []Premise{premise}}, true
	}
	return Argument{}, false
}

// BestRebuttal answers opposing with the opposite decision on item. It looks
// for a criterion that p ranks above the opposing argument's subject, on
// which item rates badly (when attacking) or well (when defending), and
// whose value premise is not in excluded. The answer pairs that value with
// the comparison that justifies outranking the subject.
func BestRebuttal(p *preference.Profile, item *preference.Item, opposing Argument, excluded *PremiseSet) (Argument, bool) {
	subject, ok := opposing.Subject()
	if !ok {
		return Argument{}, false
	}
	attack := opposing.Decision

	for _, c := range p.Order() {
		if !p.Prefers(c, subject) {
			break
		}
		v := item.Value(c)
		if attack && !v.IsBad() || !attack && !v.IsGood() {
			continue
		}
		premise := ValuePremise(c, v)
		if excluded.Contains(premise) {
			continue
		}
		return Argument{
			Item:     item,
			Decision: !attack,
			Premises: []Premise{premise, ComparisonPremise(c, subject)},
		}, true
	}
	return Argument{}, false
}
