package patterns

import (
	"errors"
	"fmt"

	"github.com/dd0wney/cluso-pathways/pkg/blacklist"
	"github.com/dd0wney/cluso-pathways/pkg/model"
	"github.com/dd0wney/cluso-pathways/pkg/pattern"
	"github.com/dd0wney/cluso-pathways/pkg/validation"
)

// Names of the library patterns.
const (
	ControlsStateChange     = "controls-state-change"
	ControlsExpression      = "controls-expression"
	InComplexWith           = "in-complex-with"
	UsedToProduce           = "used-to-produce"
	ControlsPhosphorylation = "controls-phosphorylation"
	NeighborOf              = "neighbor-of"
	HasActivity             = "has-activity"
	Controls                = "controls"
)

// ErrUnknownPattern is returned by Select for names outside the library.
var ErrUnknownPattern = errors.New("no such library pattern")

type builder func(bl *blacklist.Blacklist) *pattern.Pattern

var library = []struct {
	name  string
	build builder
}{
	{ControlsStateChange, func(*blacklist.Blacklist) *pattern.Pattern { return controlsStateChange() }},
	{ControlsExpression, func(*blacklist.Blacklist) *pattern.Pattern { return controlsExpression() }},
	{InComplexWith, func(*blacklist.Blacklist) *pattern.Pattern { return inComplexWith() }},
	{UsedToProduce, usedToProduce},
	{ControlsPhosphorylation, func(*blacklist.Blacklist) *pattern.Pattern { return controlsPhosphorylation() }},
	{NeighborOf, neighborOf},
	{HasActivity, func(*blacklist.Blacklist) *pattern.Pattern { return hasActivity() }},
	{Controls, func(*blacklist.Blacklist) *pattern.Pattern { return controls() }},
}

// Names returns the library pattern names in library order.
func Names() []string {
	out := make([]string, len(library))
	for i, entry := range library {
		out[i] = entry.name
	}
	return out
}

// Default returns a registry holding every library pattern. bl may be nil.
func Default(bl *blacklist.Blacklist) *pattern.Registry {
	reg, err := Select(bl, nil)
	if err != nil {
		panic(fmt.Sprintf("patterns: %v", err))
	}
	return reg
}

// Select returns a registry holding the named library patterns, or every
// pattern when names is empty.
func Select(bl *blacklist.Blacklist, names []string) (*pattern.Registry, error) {
	want := make(map[string]bool, len(names))
	for _, name := range names {
		if err := validation.ValidatePatternName(name); err != nil {
			return nil, err
		}
		if !known(name) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPattern, name)
		}
		want[name] = true
	}

	reg := pattern.NewRegistry()
	for _, entry := range library {
		if len(want) > 0 && !want[entry.name] {
			continue
		}
		if err := reg.Register(entry.name, entry.build(bl)); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func known(name string) bool {
	for _, entry := range library {
		if entry.name == name {
			return true
		}
	}
	return false
}

// controlsStateChange: a gene product, alone or in a complex, controls a
// conversion that turns one form of another gene product into a different
// form of it.
func controlsStateChange() *pattern.Pattern {
	return pattern.New(model.TypeEntityReference, "controller ER").
		MustAdd(erToPE(), "controller ER", "controller simple PE").
		MustAdd(linkToComplex(), "controller simple PE", "controller PE").
		MustAdd(peToControl(), "controller PE", "Control").
		MustAdd(controlTo(model.TypeConversion), "Control", "Conversion").
		MustAdd(pattern.NewNot(participantER()), "Conversion", "controller ER").
		MustAdd(path(model.TypeConversion, model.PropLeft), "Conversion", "input PE").
		MustAdd(linkToSpecific(), "input PE", "input simple PE").
		MustAdd(peToER(), "input simple PE", "changed ER").
		MustAdd(pattern.OtherSide(), "input PE", "Conversion", "output PE").
		MustAdd(pattern.Equal(false), "input PE", "output PE").
		MustAdd(linkToSpecific(), "output PE", "output simple PE").
		MustAdd(peToER(), "output simple PE", "changed ER")
}

// controlsPhosphorylation narrows controlsStateChange to a gained
// phosphorylation.
func controlsPhosphorylation() *pattern.Pattern {
	return controlsStateChange().
		MustAdd(pattern.ModificationChanged(pattern.Gain, "phospho"), "input simple PE", "output simple PE")
}

// controlsExpression: a transcription factor controls a template reaction
// that produces another gene product.
func controlsExpression() *pattern.Pattern {
	return pattern.New(model.TypeEntityReference, "TF ER").
		MustAdd(erToPE(), "TF ER", "TF simple PE").
		MustAdd(linkToComplex(), "TF simple PE", "TF PE").
		MustAdd(peToControl(), "TF PE", "Control").
		MustAdd(controlTo(model.TypeTemplateReaction), "Control", "TempReac").
		MustAdd(path(model.TypeTemplateReaction, model.PropProduct), "TempReac", "product PE").
		MustAdd(linkToSpecific(), "product PE", "product simple PE").
		MustAdd(peToER(), "product simple PE", "product ER").
		MustAdd(pattern.Equal(false), "TF ER", "product ER")
}

// inComplexWith: two different gene products are members of one complex.
// Each pair is reported once.
func inComplexWith() *pattern.Pattern {
	p := pattern.New(model.TypeEntityReference, "ER 1").
		MustAdd(erToPE(), "ER 1", "SPE 1").
		MustAdd(path(model.TypePhysicalEntity, model.PropComponentOf+"*"), "SPE 1", "Complex").
		MustAdd(path(model.TypeComplex, model.PropComponent+"*"), "Complex", "SPE 2").
		MustAdd(pattern.NewNot(pattern.OfType(model.TypeComplex)), "SPE 2").
		MustAdd(pattern.Equal(false), "SPE 1", "SPE 2").
		MustAdd(peToER(), "SPE 2", "ER 2").
		MustAdd(pattern.Equal(false), "ER 1", "ER 2")
	mustNot(p.MarkSymmetric("ER 1", "ER 2"))
	mustNot(p.MarkSymmetric("SPE 1", "SPE 2"))
	return p
}

// usedToProduce: a conversion consumes one chemical and produces another.
// Ubiquitous chemicals are skipped on both sides.
func usedToProduce(bl *blacklist.Blacklist) *pattern.Pattern {
	return pattern.New(model.TypeSmallMoleculeReference, "SMR 1").
		MustAdd(erToPE(), "SMR 1", "SM 1").
		MustAdd(pattern.NonUbique{Blacklist: bl, Context: blacklist.Input}, "SM 1").
		MustAdd(path(model.TypePhysicalEntity, model.PropParticipantOf+":"+model.TypeConversion), "SM 1", "Conversion").
		MustAdd(pattern.FieldContainsSecond(model.TypeConversion+"/"+model.PropLeft), "Conversion", "SM 1").
		MustAdd(pattern.OtherSide(), "SM 1", "Conversion", "SM 2").
		MustAdd(pattern.OfType(model.TypeSmallMolecule), "SM 2").
		MustAdd(pattern.NonUbique{Blacklist: bl, Context: blacklist.Output}, "SM 2").
		MustAdd(peToER(), "SM 2", "SMR 2").
		MustAdd(pattern.Equal(false), "SMR 1", "SMR 2")
}

// neighborOf: two different gene products take part in one interaction.
// Each pair is reported once.
func neighborOf(bl *blacklist.Blacklist) *pattern.Pattern {
	p := pattern.New(model.TypeEntityReference, "ER 1").
		MustAdd(erToPE(), "ER 1", "SPE 1").
		MustAdd(pattern.NotUbiquitous(bl), "SPE 1").
		MustAdd(linkToComplex(), "SPE 1", "PE 1").
		MustAdd(path(model.TypePhysicalEntity, model.PropParticipantOf+":"+model.TypeInteraction), "PE 1", "Interaction").
		MustAdd(path(model.TypeInteraction, model.PropParticipant+":"+model.TypePhysicalEntity), "Interaction", "PE 2").
		MustAdd(pattern.Equal(false), "PE 1", "PE 2").
		MustAdd(linkToSpecific(), "PE 2", "SPE 2").
		MustAdd(pattern.NotUbiquitous(bl), "SPE 2").
		MustAdd(peToER(), "SPE 2", "ER 2").
		MustAdd(pattern.Equal(false), "ER 1", "ER 2")
	mustNot(p.MarkSymmetric("ER 1", "ER 2"))
	mustNot(p.MarkSymmetric("SPE 1", "SPE 2"))
	mustNot(p.MarkSymmetric("PE 1", "PE 2"))
	return p
}

// hasActivity: a form of a gene product, alone or in a complex, is the
// controller of some control.
func hasActivity() *pattern.Pattern {
	return pattern.New(model.TypeEntityReference, "ER").
		MustAdd(erToPE(), "ER", "SPE").
		MustAdd(linkToComplex(), "SPE", "PE").
		MustAdd(pattern.HasActivity(true), "PE").
		MustAdd(peToControl(), "PE", "Control")
}

// controls: a gene product controls any interaction in which another gene
// product participates, whatever the interaction does to it.
func controls() *pattern.Pattern {
	return pattern.New(model.TypeEntityReference, "controller ER").
		MustAdd(erToPE(), "controller ER", "controller simple PE").
		MustAdd(linkToComplex(), "controller simple PE", "controller PE").
		MustAdd(peToControl(), "controller PE", "Control").
		MustAdd(controlTo(model.TypeInteraction), "Control", "Controlled").
		MustAdd(path(model.TypeInteraction, model.PropParticipant+":"+model.TypePhysicalEntity), "Controlled", "affected PE").
		MustAdd(linkToSpecific(), "affected PE", "affected simple PE").
		MustAdd(peToER(), "affected simple PE", "affected ER").
		MustAdd(pattern.Equal(false), "controller ER", "affected ER")
}

func mustNot(err error) {
	if err != nil {
		panic(fmt.Sprintf("patterns: invalid library pattern: %v", err))
	}
}
