// Package idhash computes the deterministic identifiers used across the
// generated tables. All ids are pure functions of the generation seed plus a
// stable discriminator, so regenerating with the same seed reproduces them.
package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/mr-tron/base58"
)

// PlayerID returns the stable game_user_id for the index-th simulated player.
func PlayerID(index int) string {
	return fmt.Sprintf("u%06d", index+1)
}

// InstallID computes a deterministic install id.
// Formula: base58(SHA256(seed|index))[:16]
func InstallID(seed int64, index int) string {
	data := fmt.Sprintf("%d|%d", seed, index)
	hash := sha256.Sum256([]byte(data))
	return base58.Encode(hash[:])[:16]
}

// SessionID computes the session id for a player's n-th session on a given
// simulated day offset.
func SessionID(gameUserID string, day, session int) string {
	return fmt.Sprintf("%s-d%02d-s%d", gameUserID, day, session)
}

// ModelID computes a deterministic model id for a trained ensemble.
// Formula: SHA256(track|seed|trees|depth), hex-encoded, first 12 characters.
func ModelID(track string, seed int64, trees, depth int) string {
	data := fmt.Sprintf("%s|%d|%d|%d", track, seed, trees, depth)
	hash := sha256.Sum256([]byte(data))
	return "gbt_" + hex.EncodeToString(hash[:])[:12]
}
