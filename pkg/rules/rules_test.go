package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchedTableCaseInsensitive(t *testing.T) {
	rs := Note2378796()

	assert.True(t, rs.WatchedTable("MARC"))
	assert.True(t, rs.WatchedTable("marc"))
	assert.True(t, rs.WatchedTable("Marc"))
	assert.False(t, rs.WatchedTable("MARA"))
	assert.False(t, rs.WatchedTable(""))
}

func TestFieldsInsertionOrder(t *testing.T) {
	rs := Note2378796()

	fields := rs.Fields()
	require.Len(t, fields, 2)
	assert.Equal(t, "STAWN", fields[0].Name)
	assert.Equal(t, "EXPME", fields[1].Name)
}

func TestMatchFieldsShortCircuit(t *testing.T) {
	rs := Note2378796()

	// unwatched table returns nil without scanning the window
	assert.Nil(t, rs.MatchFields("MARA", "STAWN EXPME"))

	hits := rs.MatchFields("marc", "where stawn = '1'")
	require.Len(t, hits, 1)
	assert.Equal(t, "STAWN", hits[0].Name)
}

func TestMatchFieldsWholeWord(t *testing.T) {
	rs := Note2378796()

	assert.Empty(t, rs.MatchFields("MARC", "MY_STAWN_X and EXPMEX"))

	hits := rs.MatchFields("MARC", "b~stawn = a~EXPME")
	require.Len(t, hits, 2)
}

func TestMessage(t *testing.T) {
	rs := Note2378796()

	msg := rs.Message("stawn", "marc")
	assert.Equal(t, "Field STAWN must NOT be read directly from MARC (SAP Note 2378796). Create instance of /SAPSLL/CL_MM_CLS_SERVICE and call ->GET_COMMODITY_CODE_CLS", msg)
}

func TestRemediation(t *testing.T) {
	rs := Note2378796()

	assert.Contains(t, rs.Remediation("EXPME"), "GET_COMMODITY_CODE_DETAILS")
	assert.Contains(t, rs.Remediation("expme"), "GET_COMMODITY_CODE_DETAILS")
	assert.Empty(t, rs.Remediation("MATNR"))
}

func TestKeywords(t *testing.T) {
	rs := Note2378796()

	assert.Equal(t, map[string]struct{}{
		"select": {},
		"stawn":  {},
		"expme":  {},
	}, rs.Keywords())
}
