package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"acme-explorer-service/internal/domain/entity"
)

func TestTripPricePipeline_UsesPopulationStdDev(t *testing.T) {
	raw, err := bson.MarshalExtJSON(bson.D{{Key: "p", Value: TripPricePipeline()}}, false, false)
	require.NoError(t, err)

	assert.Contains(t, string(raw), `"$stdDevPop":"$price"`)
	assert.NotContains(t, string(raw), "$stdDevSamp")
}

func TestCountPerGroupPipeline(t *testing.T) {
	p := CountPerGroupPipeline("$manager")
	require.Len(t, p, 2)

	group := p[0][0].Value.(bson.D)
	assert.Equal(t, bson.E{Key: "_id", Value: "$manager"}, group[0])
}

func TestFinderStatisticsPipeline_ExcludesEmptyKeywords(t *testing.T) {
	raw, err := bson.MarshalExtJSON(bson.D{{Key: "p", Value: FinderStatisticsPipeline(10)}}, false, false)
	require.NoError(t, err)

	assert.Contains(t, string(raw), `"$nin":[null,""]`)
	assert.Contains(t, string(raw), `"$limit":10`)
}

func TestSpendingPipeline_MatchesAcceptedSincePeriod(t *testing.T) {
	since := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	p := SpendingPipeline(entity.CubePeriod{Keyword: "Y01", Since: since})

	match := p[0][0].Value.(bson.D)
	assert.Equal(t, bson.E{Key: "state", Value: entity.ApplicationAccepted}, match[0])
	assert.Equal(t, bson.E{Key: "updatedAt", Value: bson.M{"$gte": since}}, match[1])
}

func TestStatsResult_NullsBecomeZero(t *testing.T) {
	assert.Equal(t, entity.CountStatistics{}, statsResult{}.toCountStatistics())
}
