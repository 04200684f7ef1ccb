package models

// OverwriteKind says whether an overwrite targets a role or a single
// member. The two kinds are mutually exclusive.
type OverwriteKind int

const (
	OverwriteRole   OverwriteKind = 0
	OverwriteMember OverwriteKind = 1
)

// Overwrite is a channel-scoped allow/deny permission delta. TargetID is
// a role ID when Kind is OverwriteRole and a user ID when Kind is
// OverwriteMember. Allow and Deny may overlap; at each precedence step
// deny is applied before allow, so allow wins overlaps within a step.
type Overwrite struct {
	ChannelID int64         `json:"channel_id,string"`
	TargetID  int64         `json:"target_id,string"`
	Kind      OverwriteKind `json:"kind"`
	Allow     int64         `json:"allow,string"`
	Deny      int64         `json:"deny,string"`
}
