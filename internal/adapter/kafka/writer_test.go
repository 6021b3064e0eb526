package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/award-map-report/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC)
	summary := domain.RegionSummary{
		Region:         "Alabama",
		Population:     5024279,
		Wins:           3,
		Establishments: 412,
		Receipts:       2.1e8,
		WinsPerPop:     5.971e-07,
		WinsPerReceipt: 1.4286e-08,
		VertexCount:    1204,
		GeneratedAt:    now,
	}

	msg, err := serializeToMessage(summary)
	require.NoError(t, err)

	assert.Equal(t, []byte("Alabama"), msg.Key)
	assert.Contains(t, string(msg.Value), `"region":"Alabama"`)
	assert.Contains(t, string(msg.Value), `"wins":3`)
	assert.Contains(t, string(msg.Value), `"vertex_count":1204`)

	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "region", msg.Headers[0].Key)
	assert.Equal(t, []byte("Alabama"), msg.Headers[0].Value)
	assert.Equal(t, "generated_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)
}
