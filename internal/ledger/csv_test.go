package ledger

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledger/internal/currency"
	"github.com/cleared-dev/ledger/internal/period"
)

func TestWriteCSV(t *testing.T) {
	ledgers := View(chart(), sampleEntries(), period.Filter{}, Options{OnlyWithTransactions: true})

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, ledgers, currency.Plain(2)))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, Header, records[0])
	// cash 2, payable 1, revenue 1, fuel 2
	require.Len(t, records, 7)

	assert.Equal(t, []string{"1110", "Cash", "2025-01-05", "JE-2025-01-001", "Trip revenue", "1000.00", "", "1500.00"}, records[1])
	assert.Equal(t, []string{"1110", "Cash", "2025-02-10", "JE-2025-02-001", "Fuel purchase", "", "200.00", "1300.00"}, records[2])
}
