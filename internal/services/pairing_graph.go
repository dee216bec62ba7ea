package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/sirupsen/logrus"

	"github.com/temcen/closetmood/pkg/models"
)

const (
	recordOutfitCypher = `
		UNWIND $pairs AS pair
		MERGE (a:Garment {id: pair.a, user_id: $user_id})
		MERGE (b:Garment {id: pair.b, user_id: $user_id})
		MERGE (a)-[r:WORN_WITH]->(b)
		ON CREATE SET r.count = 0
		SET r.count = r.count + 1, r.updated_at = datetime()`

	topPairingsCypher = `
		MATCH (g:Garment {id: $garment_id, user_id: $user_id})-[r:WORN_WITH]-(other:Garment)
		RETURN other.id AS garment_id, r.count AS count
		ORDER BY count DESC, garment_id ASC
		LIMIT $limit`
)

// PairingGraph keeps a per-user graph of garments that were saved or worn together.
// It is informational only; recommendation scoring never reads it.
type PairingGraph struct {
	driver     neo4j.DriverWithContext
	maxResults int
	logger     *logrus.Logger
}

func NewPairingGraph(driver neo4j.DriverWithContext, maxResults int, logger *logrus.Logger) *PairingGraph {
	if maxResults <= 0 {
		maxResults = 20
	}
	return &PairingGraph{
		driver:     driver,
		maxResults: maxResults,
		logger:     logger,
	}
}

// RecordOutfit increments the WORN_WITH count of every garment pair in the outfit.
func (g *PairingGraph) RecordOutfit(ctx context.Context, userID string, garmentIDs []string) error {
	pairs := garmentPairs(garmentIDs)
	if len(pairs) == 0 {
		return nil
	}

	session := g.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		result, err := tx.Run(ctx, recordOutfitCypher, map[string]interface{}{
			"user_id": userID,
			"pairs":   pairs,
		})
		if err != nil {
			return nil, err
		}

		summary, err := result.Consume(ctx)
		if err != nil {
			return nil, err
		}

		return summary.Counters(), nil
	})
	if err != nil {
		return fmt.Errorf("failed to record outfit pairings: %w", err)
	}

	g.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"pairs":   len(pairs),
	}).Debug("Recorded outfit pairings")

	return nil
}

// TopPairings returns the garments most often worn with garmentID.
func (g *PairingGraph) TopPairings(ctx context.Context, userID, garmentID string, limit int) ([]models.Pairing, error) {
	if limit <= 0 || limit > g.maxResults {
		limit = g.maxResults
	}

	session := g.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		result, err := tx.Run(ctx, topPairingsCypher, map[string]interface{}{
			"user_id":    userID,
			"garment_id": garmentID,
			"limit":      limit,
		})
		if err != nil {
			return nil, err
		}

		pairings := make([]models.Pairing, 0, limit)
		for result.Next(ctx) {
			record := result.Record()
			id, _ := record.Get("garment_id")
			count, _ := record.Get("count")

			idStr, ok := id.(string)
			if !ok {
				continue
			}
			n, _ := count.(int64)
			pairings = append(pairings, models.Pairing{GarmentID: idStr, Count: n})
		}

		return pairings, result.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get garment pairings: %w", err)
	}

	return result.([]models.Pairing), nil
}

// garmentPairs returns each unordered pair of distinct ids once, smaller id first.
func garmentPairs(ids []string) []map[string]interface{} {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	sort.Strings(unique)

	pairs := make([]map[string]interface{}, 0, len(unique)*(len(unique)-1)/2)
	for i := 0; i < len(unique); i++ {
		for j := i + 1; j < len(unique); j++ {
			pairs = append(pairs, map[string]interface{}{"a": unique[i], "b": unique[j]})
		}
	}
	return pairs
}
