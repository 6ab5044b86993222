package domain

// Gameplay event names emitted by the session synthesizer.
const (
	EventSessionStart  = "session_start"
	EventSessionEnd    = "session_end"
	EventCombatHit     = "combat_hit"
	EventCombatKill    = "combat_kill"
	EventSkillCast     = "skill_cast"
	EventQuestAccept   = "quest_accept"
	EventQuestComplete = "quest_complete"
	EventItemLoot      = "item_loot"
	EventItemCraft     = "item_craft"
	EventItemSell      = "item_sell"
	EventZoneEnter     = "zone_enter"
	EventDungeonClear  = "dungeon_clear"
	EventPvPMatch      = "pvp_match"
	EventGuildJoin     = "guild_join"
	EventGuildChat     = "guild_chat"
	EventFriendAdd     = "friend_add"
	EventChatMessage   = "chat_message"
	EventGachaPull     = "gacha_pull"
	EventShopView      = "shop_view"
	EventLevelUp       = "level_up"
)

// Event is one telemetry row. Corresponds to one row of events.csv.
// Events are produced, never mutated; once handed to the sink they are final.
//
// RawTime carries a deliberately malformed timestamp string injected by the
// data-quality corruptor. RawTimeSet marks the row as corrupted: one of the
// malformed variants is the empty string, so the flag, not the value,
// decides whether RawTime overrides TimestampMs at export time. Generated
// events always leave both zero.
type Event struct {
	GameUserID  string
	TimestampMs int64
	RawTime     string
	RawTimeSet  bool
	Name        string
	SessionID   string
	Params      string // semicolon-delimited key=value pairs, may be empty
}
