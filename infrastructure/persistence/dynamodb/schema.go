// Package dynamodb implements the repositories on a single DynamoDB
// table. One partition per user, with sort-key prefixes separating
// entries, connections and tag mappings:
//
//	PK = USER#<user_id>
//	SK = ENTRY#<event_id> | CONN#<pair_key> | TAG#<tag>
//
// Weight increments use an atomic ADD so concurrent writers never
// lose updates.
package dynamodb

import (
	"github.com/Asadaligondal/Identity-Compass/domain/core/valueobjects"
)

const (
	userPKPrefix  = "USER#"
	entrySKPrefix = "ENTRY#"
	connSKPrefix  = "CONN#"
	tagSKPrefix   = "TAG#"
)

func userPK(userID string) string { return userPKPrefix + userID }

func entrySK(eventID string) string { return entrySKPrefix + eventID }

func connSK(pair valueobjects.PairKey) string { return connSKPrefix + pair.String() }

func tagSK(tag valueobjects.Tag) string { return tagSKPrefix + tag.String() }
