package patterns

import (
	"github.com/dd0wney/cluso-pathways/pkg/model"
	"github.com/dd0wney/cluso-pathways/pkg/pattern"
)

func path(start string, props ...string) pattern.PathConstraint {
	accessor := start
	for _, p := range props {
		accessor += "/" + p
	}
	return pattern.NewPath(accessor)
}

// erToPE produces the physical entities of an entity reference.
func erToPE() pattern.Constraint {
	return path(model.TypeEntityReference, model.PropEntityReferenceOf)
}

// peToER produces the entity reference of a physical entity.
func peToER() pattern.Constraint {
	return path(model.TypePhysicalEntity, model.PropEntityReference)
}

// linkToComplex produces the entity itself and every complex or generic
// entity that contains it, at any depth.
func linkToComplex() pattern.Constraint {
	return pattern.NewSelfOrThis(pattern.NewMultiPath(
		model.TypePhysicalEntity+"/"+model.PropComponentOf+"*",
		model.TypePhysicalEntity+"/"+model.PropMemberPhysicalEntityOf+"*",
	))
}

// linkToSpecific produces the entity itself and everything it contains.
func linkToSpecific() pattern.Constraint {
	return pattern.NewSelfOrThis(pattern.NewMultiPath(
		model.TypePhysicalEntity+"/"+model.PropComponent+"*",
		model.TypePhysicalEntity+"/"+model.PropMemberPhysicalEntity+"*",
	))
}

// peToControl produces the controls an entity is the controller of.
func peToControl() pattern.Constraint {
	return path(model.TypePhysicalEntity, model.PropControllerOf)
}

// controlTo produces what a control controls, restricted to typ.
func controlTo(typ string) pattern.Constraint {
	return path(model.TypeControl, model.PropControlled+":"+typ)
}

// participantER holds when an entity reference is among the references of
// an interaction's participants.
func participantER() pattern.Constraint {
	return pattern.FieldContainsSecond(model.TypeInteraction + "/" + model.PropParticipant + "/" + model.PropEntityReference)
}
