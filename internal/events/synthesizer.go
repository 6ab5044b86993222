package events

import (
	"fmt"
	"math"

	"mmo-analytics-lab/internal/domain"
	"mmo-analytics-lab/internal/idhash"
	"mmo-analytics-lab/internal/retention"
	"mmo-analytics-lab/internal/rng"
)

// Zones visited by filler and combat events.
var zones = []string{"emberfall", "frostpeak", "duskmire", "sunspire", "hollowdeep", "stormreach"}

// Activity summarizes one player's simulated gameplay. Milestones and level
// progression are computed during generation regardless of whether the event
// rows themselves fit under the budget: the monetization simulator depends on
// them even after the cap is hit.
type Activity struct {
	SessionsTotal int
	SessionsW7    int
	ActiveDaysW7  int
	MaxLevelW7    int
	FinalLevel    int
	Milestones    domain.Milestones
	RowsWritten   int
}

// Synthesizer turns active day-sets into session event streams.
type Synthesizer struct {
	stream  *rng.Stream
	writer  *Writer
	oooRate float64
}

// NewSynthesizer creates a Synthesizer sharing the generation stream.
func NewSynthesizer(stream *rng.Stream, writer *Writer, oooRate float64) *Synthesizer {
	return &Synthesizer{stream: stream, writer: writer, oooRate: oooRate}
}

// pending is an event under construction, before timestamps are assigned.
type pending struct {
	name   string
	params string
}

// Player generates sessions and events for one player across its active
// days. share caps how many rows this player may append; the milestone and
// level simulation always runs to completion.
func (s *Synthesizer) Player(p domain.Player, prof domain.Profile, activeDays []int, share int) Activity {
	act := Activity{FinalLevel: 1}
	level := 1
	guildJoined := false

	for _, day := range activeDays {
		if day < 7 {
			act.ActiveDaysW7++
		}
		dayStart := p.InstallTimeMs + int64(day)*retention.DayMs

		sessions := s.sessionCount(prof)
		for si := 0; si < sessions; si++ {
			act.SessionsTotal++
			if day < 7 {
				act.SessionsW7++
			}

			sessionStart := dayStart +
				int64(s.stream.IntRange(7, 22))*3600_000 +
				int64(s.stream.IntRange(0, 59))*60_000
			durationMin := (10 + prof.Engagement*30) * (0.7 + 0.6*s.stream.Float64())
			durationMs := int64(durationMin * 60_000)
			sessionID := idhash.SessionID(p.GameUserID, day, si+1)

			var spiked bool
			level, spiked = s.advanceLevel(&act, prof, level, day, si, sessionStart)
			if day < 7 && level > act.MaxLevelW7 {
				act.MaxLevelW7 = level
			}

			middle := s.structuredEvents(prof, p.ConsentMarketing, level, day, sessionStart, &act, &guildJoined)
			if spiked {
				middle = append(middle, pending{domain.EventLevelUp, fmt.Sprintf("level=%d", level)})
			}
			middle = s.fillSession(prof, middle)
			s.disorder(middle)

			s.emitSession(p.GameUserID, sessionID, sessionStart, durationMs, middle, share, &act)
		}
	}

	act.FinalLevel = level
	return act
}

// sessionCount draws the number of sessions for one active day:
// clamp(1 + floor(engagement*2.2) + occasional extra, 1, 4).
func (s *Synthesizer) sessionCount(prof domain.Profile) int {
	n := 1 + int(math.Floor(prof.Engagement*2.2))
	if s.stream.Chance(0.12) {
		n++
	}
	if n < 1 {
		n = 1
	}
	if n > 4 {
		n = 4
	}
	return n
}

// advanceLevel progresses the player's level once per day (on the first
// session) and handles the optional early big level draw that can tag the
// level-20 milestone. The second return reports whether the early spike
// fired; the caller emits a level_up event into the session body for it.
func (s *Synthesizer) advanceLevel(act *Activity, prof domain.Profile, level, day, session int, sessionStart int64) (int, bool) {
	if session != 0 {
		return level, false
	}

	gain := 1 + int(math.Floor(prof.GrindPropensity*2))
	level += gain
	if level > prof.LevelMax {
		level = prof.LevelMax
	}

	// Early hardcore players can spike ahead within the first days.
	spiked := false
	if day <= 2 && s.stream.Chance(0.06+0.04*prof.Engagement) {
		drawn := s.stream.IntRange(prof.LevelMin, prof.LevelMax)
		if drawn > level {
			level = drawn
			spiked = true
		}
	}

	if level >= 20 && act.Milestones.Level20Ms == 0 {
		act.Milestones.Level20Ms = sessionStart
	}
	return level, spiked
}

// structuredEvents builds the weighted category mixture for one session and
// tags dungeon/guild milestones. gacha/shop events are gated on marketing
// consent.
func (s *Synthesizer) structuredEvents(prof domain.Profile, consentMarketing bool, level, day int, sessionStart int64, act *Activity, guildJoined *bool) []pending {
	intensity := 0.15 + 0.55*prof.Engagement
	var out []pending

	zone := s.stream.Pick(zones)

	// Combat (grind-governed).
	combat := s.categoryCount(intensity, prof.GrindPropensity, 12)
	for i := 0; i < combat; i++ {
		if s.stream.Chance(0.25) {
			out = append(out, pending{domain.EventCombatKill, fmt.Sprintf("zone=%s;level=%d", zone, level)})
		} else {
			out = append(out, pending{domain.EventCombatHit, fmt.Sprintf("zone=%s;dmg=%d", zone, s.stream.IntRange(10, 400))})
		}
	}

	// Quests (grind-governed).
	quests := s.categoryCount(intensity, prof.GrindPropensity, 6)
	for i := 0; i < quests; i++ {
		questID := fmt.Sprintf("quest_id=q%03d", s.stream.IntRange(1, 180))
		if s.stream.Chance(0.5) {
			out = append(out, pending{domain.EventQuestComplete, questID})
		} else {
			out = append(out, pending{domain.EventQuestAccept, questID})
		}
	}

	// Economy (grind-governed).
	economy := s.categoryCount(intensity, prof.GrindPropensity, 5)
	for i := 0; i < economy; i++ {
		switch s.stream.IntRange(0, 2) {
		case 0:
			out = append(out, pending{domain.EventItemLoot, fmt.Sprintf("item_id=i%04d;rarity=%d", s.stream.IntRange(1, 2500), s.stream.IntRange(1, 5))})
		case 1:
			out = append(out, pending{domain.EventItemCraft, fmt.Sprintf("item_id=i%04d", s.stream.IntRange(1, 2500))})
		default:
			out = append(out, pending{domain.EventItemSell, fmt.Sprintf("item_id=i%04d;gold=%d", s.stream.IntRange(1, 2500), s.stream.IntRange(5, 900))})
		}
	}

	// PvP (compete-governed).
	pvp := s.categoryCount(intensity, prof.CompetePropensity, 4)
	for i := 0; i < pvp; i++ {
		result := "win"
		if s.stream.Chance(0.5) {
			result = "loss"
		}
		out = append(out, pending{domain.EventPvPMatch, "mode=arena;result=" + result})
	}

	// Social (social-governed).
	social := s.categoryCount(intensity, prof.SocialPropensity, 5)
	for i := 0; i < social; i++ {
		switch s.stream.IntRange(0, 2) {
		case 0:
			out = append(out, pending{domain.EventGuildChat, ""})
		case 1:
			out = append(out, pending{domain.EventChatMessage, "channel=world"})
		default:
			out = append(out, pending{domain.EventFriendAdd, ""})
		}
	}

	// Monetization-adjacent (pay-governed, consent-gated).
	if consentMarketing {
		shop := s.categoryCount(intensity, prof.PayPropensity, 3)
		for i := 0; i < shop; i++ {
			if s.stream.Chance(0.4) {
				out = append(out, pending{domain.EventGachaPull, fmt.Sprintf("banner=b%02d;pulls=%d", s.stream.IntRange(1, 8), s.stream.IntRange(1, 10))})
			} else {
				out = append(out, pending{domain.EventShopView, "tab=" + s.stream.Pick([]string{"gems", "bundles", "costumes"})})
			}
		}
	}

	// Dungeon clear, first one tags the milestone.
	if s.stream.Chance(0.10 + 0.25*prof.GrindPropensity*intensity) {
		out = append(out, pending{domain.EventDungeonClear, fmt.Sprintf("dungeon_id=d%02d;level=%d", s.stream.IntRange(1, 20), level)})
		if act.Milestones.FirstDungeonMs == 0 {
			act.Milestones.FirstDungeonMs = sessionStart
		}
	}

	// Guild join: only within the first week, at most once.
	if day <= 6 && !*guildJoined && s.stream.Chance(prof.GuildProb*prof.SocialPropensity) {
		out = append(out, pending{domain.EventGuildJoin, fmt.Sprintf("guild_id=g%03d", s.stream.IntRange(1, 120))})
		*guildJoined = true
		if act.Milestones.FirstGuildMs == 0 {
			act.Milestones.FirstGuildMs = sessionStart
		}
	}

	return out
}

// categoryCount draws the structured event count for one category:
// floor(intensity * propensity * randInt(0, upper)).
func (s *Synthesizer) categoryCount(intensity, propensity float64, upper int) int {
	return int(math.Floor(intensity * propensity * float64(s.stream.IntRange(0, upper))))
}

// fillSession pads the session with generic filler events up to a volume
// target derived from engagement. Very low-engagement sessions are capped
// early rather than padded into implausibly long sessions.
func (s *Synthesizer) fillSession(prof domain.Profile, middle []pending) []pending {
	desired := int(6 + prof.Engagement*24*(0.5+s.stream.Float64()))
	if prof.Engagement < 0.2 && desired > 8 {
		desired = 8
	}

	filler := []string{domain.EventCombatHit, domain.EventItemLoot, domain.EventSkillCast, domain.EventZoneEnter}
	for len(middle) < desired {
		name := s.stream.Pick(filler)
		var params string
		switch name {
		case domain.EventZoneEnter:
			params = "zone=" + s.stream.Pick(zones)
		case domain.EventSkillCast:
			params = fmt.Sprintf("skill_id=s%02d", s.stream.IntRange(1, 40))
		case domain.EventCombatHit:
			params = fmt.Sprintf("dmg=%d", s.stream.IntRange(10, 400))
		case domain.EventItemLoot:
			params = fmt.Sprintf("item_id=i%04d;rarity=%d", s.stream.IntRange(1, 2500), s.stream.IntRange(1, 5))
		}
		middle = append(middle, pending{name, params})
	}
	return middle
}

// disorder shuffles the session body, then swaps back a few adjacent pairs,
// modeling near-in-order client-side event batching.
func (s *Synthesizer) disorder(middle []pending) {
	idx := make([]int, len(middle))
	for i := range idx {
		idx[i] = i
	}
	s.stream.ShuffleInts(idx)

	shuffled := make([]pending, len(middle))
	for i, j := range idx {
		shuffled[i] = middle[j]
	}
	copy(middle, shuffled)

	for i := 0; i+1 < len(middle); i++ {
		if s.stream.Chance(s.oooRate) {
			middle[i], middle[i+1] = middle[i+1], middle[i]
		}
	}
}

// emitSession assigns timestamps spaced roughly evenly across the session
// duration and writes session_start, the body and session_end, honoring the
// per-player share.
func (s *Synthesizer) emitSession(userID, sessionID string, start, durationMs int64, middle []pending, share int, act *Activity) {
	if act.RowsWritten >= share {
		return
	}

	write := func(name, params string, ts int64) bool {
		if act.RowsWritten >= share {
			return false
		}
		act.RowsWritten += s.writer.Write(domain.Event{
			GameUserID:  userID,
			TimestampMs: ts,
			Name:        name,
			SessionID:   sessionID,
			Params:      params,
		})
		return true
	}

	if !write(domain.EventSessionStart, "", start) {
		return
	}

	n := len(middle)
	for i, ev := range middle {
		ts := start + int64(i+1)*durationMs/int64(n+2)
		if !write(ev.name, ev.params, ts) {
			return
		}
	}

	write(domain.EventSessionEnd, fmt.Sprintf("duration_s=%d", durationMs/1000), start+durationMs)
}
