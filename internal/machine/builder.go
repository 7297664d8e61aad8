package machine

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/parley-dev/parley/pkg/domain"
	"github.com/parley-dev/parley/pkg/ports"
	"github.com/parley-dev/parley/pkg/schema"
)

// Build validates a raw skill definition and compiles it into a SkillMachine,
// registering the skill's vocabulary with the NLU collaborator on success.
//
// Validation does not stop at the first problem: schema violations, dangling
// transition references, unresolved start/end states, and a blank name are
// all collected and returned together, so the author sees every defect in
// one pass. A definition that fails any check is not registered.
func Build(skill ports.Skill, raw []byte, nlu ports.Understander, log *slog.Logger) (*SkillMachine, error) {
	doc, err := schema.Parse(raw)
	if err != nil {
		log.Error("skill definition is not parseable", "err", err)
		return nil, err
	}

	var errs []error
	if verr := schema.Validate(doc); verr != nil {
		errs = append(errs, schema.ValidationErrors(verr)...)
	}

	def, err := schema.Decode(doc)
	if err != nil {
		// Undecodable documents cannot be checked any further.
		errs = append(errs, err)
		aggr := &schema.AggregateError{Errors: errs}
		log.Error("skill definition rejected", "err", aggr)
		return nil, aggr
	}

	states := make(map[string]*domain.State, len(def.States))
	for _, sd := range def.States {
		if _, dup := states[sd.Name]; dup {
			errs = append(errs, fmt.Errorf("state %q is declared more than once", sd.Name))
			continue
		}
		states[sd.Name] = domain.NewState(sd.Name)
	}

	for i, td := range def.Transitions {
		source, sourceOK := states[td.Source]
		if !sourceOK {
			errs = append(errs, fmt.Errorf("transition %d: cannot find the source state %q", i, td.Source))
		}
		target, targetOK := states[td.Target]
		if !targetOK {
			errs = append(errs, fmt.Errorf("transition %d: cannot find the target state %q", i, td.Target))
		}
		if sourceOK && targetOK {
			source.AddTransition(target, td.Trigger)
		}
	}

	start, ok := states[def.StartAt]
	if !ok {
		errs = append(errs, fmt.Errorf("start state %q is not among the declared states", def.StartAt))
	}
	end, ok := states[def.EndAt]
	if !ok {
		errs = append(errs, fmt.Errorf("end state %q is not among the declared states", def.EndAt))
	}

	if strings.TrimSpace(def.Name) == "" {
		errs = append(errs, fmt.Errorf("skill name must not be blank"))
	}

	if len(errs) > 0 {
		aggr := &schema.AggregateError{Errors: errs}
		log.Error("skill definition rejected", "skill", def.Name, "err", aggr)
		return nil, aggr
	}

	nlu.AddUsedEntities(def.UsedEntities)
	nlu.AddUsedIntents(def.UsedIntents)

	log.Info("skill machine built",
		"skill", def.Name, "states", len(def.States), "transitions", len(def.Transitions))
	return New(def.Name, start, end, skill, log), nil
}
