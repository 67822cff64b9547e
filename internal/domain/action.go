package domain

import "fmt"

// Action names one operation of the console.
type Action string

const (
	ActionCreate       Action = "create"
	ActionUpdate       Action = "update"
	ActionRetrieve     Action = "retrieve"
	ActionDelete       Action = "delete"
	ActionSearch       Action = "search"
	ActionClear        Action = "clear"
	ActionCreateItem   Action = "create-item"
	ActionRetrieveItem Action = "retrieve-item"
	ActionSearchItems  Action = "search-items"
	ActionDeleteItem   Action = "delete-item"
	ActionPurchaseItem Action = "purchase-item"
	ActionClearItem    Action = "clear-item"
)

var actions = []Action{
	ActionCreate, ActionUpdate, ActionRetrieve, ActionDelete, ActionSearch, ActionClear,
	ActionCreateItem, ActionRetrieveItem, ActionSearchItems, ActionDeleteItem, ActionPurchaseItem, ActionClearItem,
}

// Actions returns every action in button order.
func Actions() []Action {
	out := make([]Action, len(actions))
	copy(out, actions)
	return out
}

// ParseAction maps a name to an Action.
func ParseAction(name string) (Action, error) {
	for _, a := range actions {
		if string(a) == name {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown action %q", name)
}

// IsLocal reports whether the action only touches the view state.
func (a Action) IsLocal() bool {
	return a == ActionClear || a == ActionClearItem
}

// IsItem reports whether the action operates on the item form.
func (a Action) IsItem() bool {
	switch a {
	case ActionCreateItem, ActionRetrieveItem, ActionSearchItems, ActionDeleteItem, ActionPurchaseItem, ActionClearItem:
		return true
	}
	return false
}

func (a Action) String() string { return string(a) }
