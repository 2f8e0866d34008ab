package core_test

import (
	"fmt"
	"strings"

	"github.com/augmify/katana/pkg/core"
	"github.com/augmify/katana/pkg/errors"
	"github.com/augmify/katana/pkg/view"
)

type itemProps struct {
	Label string
}

type itemState struct {
	Count int
}

// itemUpdaters holds the latest state updater of each item, by label.
var itemUpdaters = map[string]func(itemState){}

var Item = &core.Kind[itemProps, itemState, *view.Label]{
	Name:    "Item",
	NewView: view.NewLabel,
	Apply: func(p itemProps, s itemState, v *view.Label, update func(itemState), _ core.Node) {
		itemUpdaters[p.Label] = update
		v.Text = p.Label
		if s.Count > 0 {
			v.Text = fmt.Sprintf("%s (%d)", p.Label, s.Count)
		}
	},
}

type listProps struct {
	Items []string
}

// List renders one Item per token. A token is "key" or "key=label".
var List = &core.Kind[listProps, struct{}, *view.Stack]{
	Name:    "List",
	NewView: view.NewStack,
	Render: func(p listProps, _ struct{}, _ func(struct{}), _ core.Dispatch) []core.Description {
		children := make([]core.Description, 0, len(p.Items))
		for _, token := range p.Items {
			key, label, ok := strings.Cut(token, "=")
			if !ok {
				label = key
			}
			children = append(children, Item.Describe(key, itemProps{Label: label}))
		}
		return children
	},
}

func list(items ...string) core.Description {
	return List.Describe(nil, listProps{Items: items})
}

// quietHandler swallows reports so expected violations do not spam the
// test log.
type quietHandler struct {
	violations []*errors.ContractError
}

func (h *quietHandler) HandleContractViolation(err *errors.ContractError) {
	h.violations = append(h.violations, err)
}

func (h *quietHandler) HandlePanic(*errors.PanicError) {}

// expectViolation runs fn and returns the contract error it panicked with.
func expectViolation(fn func()) (err *errors.ContractError) {
	h := &quietHandler{}
	errors.SetHandler(h)
	defer errors.SetHandler(nil)
	defer func() {
		r := recover()
		contractErr, ok := errors.AsContractError(r)
		if !ok {
			panic(fmt.Sprintf("expected a contract violation, got %v", r))
		}
		err = contractErr
	}()
	fn()
	return nil
}
