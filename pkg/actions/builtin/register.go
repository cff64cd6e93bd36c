package builtin

import "github.com/smilemakc/prana/pkg/models"

// registrar is the minimal slice of engine.Registry builtin needs, avoiding
// a dependency from pkg/actions/builtin back onto pkg/engine.
type registrar interface {
	Register(action models.Action)
}

// RegisterAll registers every reference action in this package.
func RegisterAll(r registrar) {
	r.Register(NewManualTrigger())
	r.Register(NewIfCondition())
	r.Register(NewDataTransform())
	r.Register(NewForEachBatch())
	r.Register(NewWaitInterval())
	r.Register(NewWaitSchedule())
	r.Register(NewInvokeSubWorkflowSync())
	r.Register(NewInvokeSubWorkflowAsync())
	r.Register(NewInvokeSubWorkflowFireForget())
}
