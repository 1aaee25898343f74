package model

import (
	"fmt"
	"sort"
)

// Type names of the biological schema.
const (
	TypeEntity                     = "Entity"
	TypePhysicalEntity             = "PhysicalEntity"
	TypeProtein                    = "Protein"
	TypeSmallMolecule              = "SmallMolecule"
	TypeComplex                    = "Complex"
	TypeDna                        = "Dna"
	TypeRna                        = "Rna"
	TypeInteraction                = "Interaction"
	TypeConversion                 = "Conversion"
	TypeBiochemicalReaction        = "BiochemicalReaction"
	TypeTransport                  = "Transport"
	TypeComplexAssembly            = "ComplexAssembly"
	TypeDegradation                = "Degradation"
	TypeControl                    = "Control"
	TypeCatalysis                  = "Catalysis"
	TypeModulation                 = "Modulation"
	TypeTemplateReactionRegulation = "TemplateReactionRegulation"
	TypeTemplateReaction           = "TemplateReaction"
	TypeMolecularInteraction       = "MolecularInteraction"
	TypeUtilityClass               = "UtilityClass"
	TypeEntityReference            = "EntityReference"
	TypeProteinReference           = "ProteinReference"
	TypeSmallMoleculeReference     = "SmallMoleculeReference"
	TypeDnaReference               = "DnaReference"
	TypeRnaReference               = "RnaReference"
	TypeEntityFeature              = "EntityFeature"
	TypeModificationFeature        = "ModificationFeature"
)

// Property names of the biological schema.
const (
	PropName                   = "name"
	PropDisplayName            = "displayName"
	PropXref                   = "xref"
	PropEntityReference        = "entityReference"
	PropEntityReferenceOf      = "entityReferenceOf"
	PropFeature                = "feature"
	PropFeatureOf              = "featureOf"
	PropCellularLocation       = "cellularLocation"
	PropComponent              = "component"
	PropComponentOf            = "componentOf"
	PropMemberPhysicalEntity   = "memberPhysicalEntity"
	PropMemberPhysicalEntityOf = "memberPhysicalEntityOf"
	PropParticipant            = "participant"
	PropParticipantOf          = "participantOf"
	PropLeft                   = "left"
	PropRight                  = "right"
	PropConversionDirection    = "conversionDirection"
	PropController             = "controller"
	PropControllerOf           = "controllerOf"
	PropControlled             = "controlled"
	PropControlledOf           = "controlledOf"
	PropControlType            = "controlType"
	PropProduct                = "product"
	PropProductOf              = "productOf"
	PropTemplate               = "template"
	PropTemplateOf             = "templateOf"
	PropModificationType       = "modificationType"
	PropOrganism               = "organism"
)

// LinkDirection says whether, and which way, a property becomes a graph edge.
type LinkDirection uint8

const (
	// NoLink properties are navigable but produce no edge
	NoLink LinkDirection = iota
	// LinkForward produces owner -> value edges
	LinkForward
	// LinkReverse produces value -> owner edges
	LinkReverse
)

// TypeDef declares one entity type.
type TypeDef struct {
	Name    string
	Parent  string
	Breadth bool // whether stepping onto an instance counts as a hop
}

// PropertyDef declares one property.
type PropertyDef struct {
	Name    string
	Domain  string // owner type; empty means any type
	Super   string // super-property that receives the same values
	Inverse string // property set on each value, pointing back to the owner
	Link    LinkDirection
	Literal bool
}

// Schema is a type hierarchy plus property declarations.
type Schema struct {
	types map[string]TypeDef
	props map[string]PropertyDef
}

// NewSchema returns an empty schema.
func NewSchema() *Schema {
	return &Schema{
		types: make(map[string]TypeDef),
		props: make(map[string]PropertyDef),
	}
}

// AddType declares a type. The parent must already be declared.
func (s *Schema) AddType(def TypeDef) error {
	if def.Name == "" {
		return fmt.Errorf("%w: empty type name", ErrUnknownType)
	}
	if _, ok := s.types[def.Name]; ok {
		return fmt.Errorf("type %s declared twice", def.Name)
	}
	if def.Parent != "" {
		if _, ok := s.types[def.Parent]; !ok {
			return fmt.Errorf("%w: parent %s of %s", ErrUnknownType, def.Parent, def.Name)
		}
	}
	s.types[def.Name] = def
	return nil
}

// AddProperty declares a property. Its domain and super-property must exist.
func (s *Schema) AddProperty(def PropertyDef) error {
	if def.Domain != "" {
		if _, ok := s.types[def.Domain]; !ok {
			return fmt.Errorf("%w: domain %s of %s", ErrUnknownType, def.Domain, def.Name)
		}
	}
	if def.Super != "" {
		if _, ok := s.props[def.Super]; !ok {
			return fmt.Errorf("%w: super-property %s of %s", ErrUnknownProperty, def.Super, def.Name)
		}
	}
	if def.Literal && (def.Link != NoLink || def.Inverse != "") {
		return fmt.Errorf("literal property %s cannot link or have an inverse", def.Name)
	}
	s.props[def.Name] = def
	return nil
}

// HasType reports whether the type is declared.
func (s *Schema) HasType(name string) bool {
	_, ok := s.types[name]
	return ok
}

// Type returns a type declaration.
func (s *Schema) Type(name string) (TypeDef, bool) {
	def, ok := s.types[name]
	return def, ok
}

// Property returns a property declaration.
func (s *Schema) Property(name string) (PropertyDef, bool) {
	def, ok := s.props[name]
	return def, ok
}

// IsA reports whether typ equals ancestor or descends from it.
func (s *Schema) IsA(typ, ancestor string) bool {
	for t := typ; t != ""; t = s.types[t].Parent {
		if t == ancestor {
			return true
		}
	}
	return false
}

// Types returns every declared type name, sorted.
func (s *Schema) Types() []string {
	out := make([]string, 0, len(s.types))
	for name := range s.types {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Biological returns the schema of physical entities, interactions and
// their references used throughout the pattern library.
//
// Graph edges follow the flow of matter and control: a conversion's inputs
// point at it and it points at its outputs; a controller points at its
// control, which points at what it controls.
func Biological() *Schema {
	s := NewSchema()
	types := []TypeDef{
		{Name: TypeEntity, Breadth: true},
		{Name: TypePhysicalEntity, Parent: TypeEntity, Breadth: true},
		{Name: TypeProtein, Parent: TypePhysicalEntity, Breadth: true},
		{Name: TypeSmallMolecule, Parent: TypePhysicalEntity, Breadth: true},
		{Name: TypeComplex, Parent: TypePhysicalEntity, Breadth: true},
		{Name: TypeDna, Parent: TypePhysicalEntity, Breadth: true},
		{Name: TypeRna, Parent: TypePhysicalEntity, Breadth: true},
		{Name: TypeInteraction, Parent: TypeEntity},
		{Name: TypeConversion, Parent: TypeInteraction},
		{Name: TypeBiochemicalReaction, Parent: TypeConversion},
		{Name: TypeTransport, Parent: TypeConversion},
		{Name: TypeComplexAssembly, Parent: TypeConversion},
		{Name: TypeDegradation, Parent: TypeConversion},
		{Name: TypeControl, Parent: TypeInteraction},
		{Name: TypeCatalysis, Parent: TypeControl},
		{Name: TypeModulation, Parent: TypeControl},
		{Name: TypeTemplateReactionRegulation, Parent: TypeControl},
		{Name: TypeTemplateReaction, Parent: TypeInteraction},
		{Name: TypeMolecularInteraction, Parent: TypeInteraction},
		{Name: TypeUtilityClass, Breadth: true},
		{Name: TypeEntityReference, Parent: TypeUtilityClass, Breadth: true},
		{Name: TypeProteinReference, Parent: TypeEntityReference, Breadth: true},
		{Name: TypeSmallMoleculeReference, Parent: TypeEntityReference, Breadth: true},
		{Name: TypeDnaReference, Parent: TypeEntityReference, Breadth: true},
		{Name: TypeRnaReference, Parent: TypeEntityReference, Breadth: true},
		{Name: TypeEntityFeature, Parent: TypeUtilityClass, Breadth: true},
		{Name: TypeModificationFeature, Parent: TypeEntityFeature, Breadth: true},
	}
	props := []PropertyDef{
		{Name: PropName, Literal: true},
		{Name: PropDisplayName, Literal: true},
		{Name: PropXref, Literal: true},
		{Name: PropEntityReferenceOf, Domain: TypeEntityReference},
		{Name: PropEntityReference, Domain: TypePhysicalEntity, Inverse: PropEntityReferenceOf},
		{Name: PropFeatureOf, Domain: TypeEntityFeature},
		{Name: PropFeature, Domain: TypePhysicalEntity, Inverse: PropFeatureOf},
		{Name: PropCellularLocation, Domain: TypePhysicalEntity, Literal: true},
		{Name: PropComponentOf, Domain: TypePhysicalEntity},
		{Name: PropComponent, Domain: TypeComplex, Inverse: PropComponentOf},
		{Name: PropMemberPhysicalEntityOf, Domain: TypePhysicalEntity},
		{Name: PropMemberPhysicalEntity, Domain: TypePhysicalEntity, Inverse: PropMemberPhysicalEntityOf},
		{Name: PropParticipantOf, Domain: TypeEntity},
		{Name: PropParticipant, Domain: TypeInteraction, Inverse: PropParticipantOf},
		{Name: PropLeft, Domain: TypeConversion, Super: PropParticipant, Link: LinkReverse},
		{Name: PropRight, Domain: TypeConversion, Super: PropParticipant, Link: LinkForward},
		{Name: PropConversionDirection, Domain: TypeConversion, Literal: true},
		{Name: PropControllerOf, Domain: TypeEntity},
		{Name: PropController, Domain: TypeControl, Super: PropParticipant, Inverse: PropControllerOf, Link: LinkReverse},
		{Name: PropControlledOf, Domain: TypeInteraction},
		{Name: PropControlled, Domain: TypeControl, Super: PropParticipant, Inverse: PropControlledOf, Link: LinkForward},
		{Name: PropControlType, Domain: TypeControl, Literal: true},
		{Name: PropProductOf, Domain: TypePhysicalEntity},
		{Name: PropProduct, Domain: TypeTemplateReaction, Super: PropParticipant, Inverse: PropProductOf, Link: LinkForward},
		{Name: PropTemplateOf, Domain: TypeEntity},
		{Name: PropTemplate, Domain: TypeTemplateReaction, Super: PropParticipant, Inverse: PropTemplateOf, Link: LinkReverse},
		{Name: PropModificationType, Domain: TypeModificationFeature, Literal: true},
		{Name: PropOrganism, Domain: TypeEntityReference, Literal: true},
	}
	for _, def := range types {
		mustNot(s.AddType(def))
	}
	for _, def := range props {
		mustNot(s.AddProperty(def))
	}
	return s
}

func mustNot(err error) {
	if err != nil {
		panic(fmt.Sprintf("model: invalid built-in schema: %v", err))
	}
}
