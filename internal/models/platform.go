package models

import "strings"

type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformMeta      Platform = "meta"
	PlatformFacebook  Platform = "facebook"
	PlatformPinterest Platform = "pinterest"
	PlatformYoutube   Platform = "youtube"
)

// Metric field names as the gateway serializes them.
const (
	FieldFollowersTotal  = "followers_total"
	FieldFollowersNew    = "followers_new"
	FieldViewsOrganic    = "views_organic"
	FieldViewsAds        = "views_ads"
	FieldInteractions    = "interactions"
	FieldProfileVisits   = "profile_visits"
	FieldAccountsReached = "accounts_reached"
	FieldSaves           = "saves"
	FieldAudience        = "audience"
)

// AllFields is the field superset every row carries regardless of
// platform; Fields narrows it for display.
var AllFields = []string{
	FieldFollowersNew,
	FieldViewsOrganic,
	FieldViewsAds,
	FieldInteractions,
	FieldProfileVisits,
	FieldAccountsReached,
	FieldSaves,
	FieldAudience,
}

// NormalizePlatform lowercases and folds the meta/facebook synonym pair
// onto meta.
func NormalizePlatform(s string) Platform {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	if p == PlatformFacebook {
		return PlatformMeta
	}
	return p
}

// Fields returns the display columns that are semantically meaningful
// for the platform. Unknown platforms get the full superset.
func (p Platform) Fields() []string {
	switch NormalizePlatform(string(p)) {
	case PlatformInstagram, PlatformMeta:
		return []string{FieldFollowersNew, FieldViewsOrganic, FieldViewsAds, FieldInteractions, FieldProfileVisits, FieldAccountsReached}
	case PlatformYoutube:
		return []string{FieldFollowersNew, FieldViewsOrganic, FieldViewsAds, FieldInteractions, FieldAccountsReached}
	case PlatformPinterest:
		return []string{FieldViewsOrganic, FieldInteractions, FieldAudience, FieldSaves}
	default:
		return AllFields
	}
}

func (p Platform) Known() bool {
	switch NormalizePlatform(string(p)) {
	case PlatformInstagram, PlatformMeta, PlatformPinterest, PlatformYoutube:
		return true
	}
	return false
}
