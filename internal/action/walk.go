package action

// Walk visits a and every action reachable from it through SubAction,
// SubActionList, and ValueConditionList parameters (§9 "action trees are
// strictly hierarchical; no DAGs, no cycles" — a plain recursive walk is
// therefore always safe and terminates).
func Walk(a Action, visit func(Action) error) error {
	if a == nil {
		return nil
	}
	if err := visit(a); err != nil {
		return err
	}
	inst, ok := a.(*Instance)
	if !ok {
		return nil
	}
	for _, s := range inst.Bag().Schema() {
		v, _ := inst.Bag().Get(s.Name)
		switch v.Kind {
		case KindSubAction:
			if err := Walk(v.Sub, visit); err != nil {
				return err
			}
		case KindSubActionList:
			for _, sub := range v.SubList {
				if err := Walk(sub, visit); err != nil {
					return err
				}
			}
		case KindValueConditionList:
			for _, c := range v.Conditions {
				if err := Walk(c.Action, visit); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
