package models

import "fmt"

// RowValues is the flat per-account value set for one time window. The
// full field superset is always populated; Platform.Fields decides
// which columns a renderer shows.
type RowValues struct {
	FollowersTotal  int `json:"followersTotal"`
	FollowersNew    int `json:"followersNew"`
	ViewsOrganic    int `json:"viewsOrganic"`
	ViewsAds        int `json:"viewsAds"`
	Interactions    int `json:"interactions"`
	ProfileVisits   int `json:"profileVisits"`
	AccountsReached int `json:"accountsReached"`
	Saves           int `json:"saves"`
	Audience        int `json:"audience"`
}

// Row is the projected, display-ready shape: current values at the
// root plus the previous window under prevData for delta rendering.
type Row struct {
	AccountName string   `json:"accountName"`
	Platform    Platform `json:"platform"`
	RowValues
	PrevData *RowValues `json:"prevData,omitempty"`
}

func projectValues(p Payload, sel Selection, wantPrevious bool) RowValues {
	v := RowValues{
		FollowersNew:    p.Resolve(FieldFollowersNew, sel, wantPrevious),
		ViewsOrganic:    p.Resolve(FieldViewsOrganic, sel, wantPrevious),
		ViewsAds:        p.Resolve(FieldViewsAds, sel, wantPrevious),
		Interactions:    p.Resolve(FieldInteractions, sel, wantPrevious),
		ProfileVisits:   p.Resolve(FieldProfileVisits, sel, wantPrevious),
		AccountsReached: p.Resolve(FieldAccountsReached, sel, wantPrevious),
		Saves:           p.Resolve(FieldSaves, sel, wantPrevious),
		Audience:        p.Resolve(FieldAudience, sel, wantPrevious),
	}
	v.FollowersTotal = p.Resolve(FieldFollowersTotal, sel, wantPrevious)
	return v
}

// ProjectRow flattens one metric item into its display row, computing
// both the current and previous window from the same payload.
func ProjectRow(item MetricItem, sel Selection) Row {
	data := item.Data
	if data == nil {
		data = DefaultPayload()
	}
	prev := projectValues(data, sel, true)
	return Row{
		AccountName: item.AccountName,
		Platform:    NormalizePlatform(string(item.Platform)),
		RowValues:   projectValues(data, sel, false),
		PrevData:    &prev,
	}
}

// DeltaLabel renders the change indicator next to a value. Empty when
// there is no previous value to compare against, the previous value is
// zero, or nothing changed; positive deltas carry an explicit sign.
func DeltaLabel(current int, previous *int) string {
	if previous == nil || *previous == 0 {
		return ""
	}
	diff := current - *previous
	if diff == 0 {
		return ""
	}
	return fmt.Sprintf("%+d", diff)
}
