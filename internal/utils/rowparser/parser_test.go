package rowparser

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/sftp_txn_ingest/internal/apperrors"
	"github.com/SscSPs/sftp_txn_ingest/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine_Valid(t *testing.T) {
	rec, err := ParseLine("1,A,D,100.00,2024-01-01,Pending")
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, "1", rec.ID)
	assert.Equal(t, "A", rec.ClientID)
	assert.Equal(t, domain.Deposit, rec.Kind)
	assert.True(t, decimal.RequireFromString("100.00").Equal(rec.Amount))
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), rec.Date)
	assert.Equal(t, domain.StatusPending, rec.Status)
}

func TestParseLine_QuotedFieldsMatchUnquoted(t *testing.T) {
	plain, err := ParseLine("1,A,D,100.00,2024-01-01,Pending")
	require.NoError(t, err)

	quoted, err := ParseLine(`"1","A","D","100.00","2024-01-01","Pending"`)
	require.NoError(t, err)

	assert.Equal(t, plain, quoted)
}

func TestParseLine_WholeLineQuoted(t *testing.T) {
	rec, err := ParseLine(`"7,B,w,-12.5,2024-02-29,failed"`)
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, "7", rec.ID)
	assert.Equal(t, domain.Withdrawal, rec.Kind)
	assert.True(t, decimal.RequireFromString("-12.5").Equal(rec.Amount))
	assert.Equal(t, domain.StatusFailed, rec.Status)
}

func TestParseLine_WholeLineQuotedWithQuotedInnerField(t *testing.T) {
	plain, err := ParseLine("1,A,D,100,2024-01-01,Pending")
	require.NoError(t, err)

	for _, line := range []string{
		`"1,"A",D,100,2024-01-01,Pending"`,
		`'1,'A',D,100,2024-01-01,Completed'`,
	} {
		rec, err := ParseLine(line)
		require.NoError(t, err, line)
		require.NotNil(t, rec, line)
		assert.Equal(t, plain.ID, rec.ID, line)
		assert.Equal(t, plain.ClientID, rec.ClientID, line)
		assert.Equal(t, plain.Kind, rec.Kind, line)
	}

	rec, err := ParseLine(`"1,"A",D,100,2024-01-01,Completed"`)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, rec.Status)
}

func TestParseLine_Normalization(t *testing.T) {
	rec, err := ParseLine("  ' 9 ' ,  C1 , d , $1,234.56 , 2023-12-31 , COMPLETED  ")
	// "$1,234.56" splits on the comma, so the amount field is "$1" and the date shifts.
	require.Error(t, err)
	assert.Nil(t, rec)

	rec, err = ParseLine("  ' 9 ' ,  C1 , d , $1234.56 USD , 2023-12-31 , COMPLETED  ")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "9", rec.ID)
	assert.Equal(t, "C1", rec.ClientID)
	assert.Equal(t, domain.Deposit, rec.Kind)
	assert.Equal(t, "1234.56", rec.Amount.String())
	assert.Equal(t, domain.StatusCompleted, rec.Status)
}

func TestParseLine_AmountPrecisionPreserved(t *testing.T) {
	rec, err := ParseLine("1,A,D,0.10000000000000000001,2024-01-01,Pending")
	require.NoError(t, err)
	assert.Equal(t, "0.10000000000000000001", rec.Amount.String())
}

func TestParseLine_Skipped(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{name: "too few fields", line: "1,A,D,100.00,2024-01-01"},
		{name: "bad kind", line: "1,A,X,100.00,2024-01-01,Pending"},
		{name: "amount without digits", line: "1,A,D,abc,2024-01-01,Pending"},
		{name: "amount not a decimal", line: "1,A,D,1.2.3,2024-01-01,Pending"},
		{name: "empty id", line: `"",A,D,1,2024-01-01,Pending`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := ParseLine(tt.line)
			assert.Nil(t, rec)
			assert.ErrorIs(t, err, apperrors.ErrMalformedLine)
		})
	}
}

func TestParseLine_BlankAndHeader(t *testing.T) {
	for _, line := range []string{
		"",
		"   \t",
		"ID,ClientID,Transaction,Amount,Date,Status",
		`"id","clientid","transaction","amount","date","status"`,
		"id,clientid,transaction,amount,date,status,extra",
	} {
		rec, err := ParseLine(line)
		assert.NoError(t, err, line)
		assert.Nil(t, rec, line)
	}
}

func TestParseLine_BadDateIsFatal(t *testing.T) {
	rec, err := ParseLine("1,A,D,100.00,01/02/2024,Pending")
	assert.Nil(t, rec)
	assert.ErrorIs(t, err, apperrors.ErrInvalidDate)
	assert.NotErrorIs(t, err, apperrors.ErrMalformedLine)
}

func TestParseLine_ExtraFieldsIgnored(t *testing.T) {
	rec, err := ParseLine("1,A,D,5,2024-01-01,Pending,,,")
	require.NoError(t, err)
	assert.Equal(t, "1", rec.ID)
}

func TestRecords_MalformedLineTolerance(t *testing.T) {
	var b strings.Builder
	b.WriteString("ID,ClientID,Transaction,Amount,Date,Status\r\n")
	for i := 1; i <= 10; i++ {
		fmt.Fprintf(&b, "%d,C%d,D,%d.00,2024-01-%02d,Completed\r\n", i, i, i*10, i)
		switch i {
		case 3:
			b.WriteString("bad,row,D\r\n")
		case 5:
			b.WriteString("11,C,Q,1.00,2024-01-01,Pending\n")
		case 8:
			b.WriteString("12,C,W,n/a,2024-01-01,Pending\n")
		}
	}

	var skippedLines []int
	records, err := Collect(Records([]byte(b.String()), func(lineNo int, err error) {
		assert.ErrorIs(t, err, apperrors.ErrMalformedLine)
		skippedLines = append(skippedLines, lineNo)
	}))

	require.NoError(t, err)
	assert.Len(t, records, 10)
	assert.Equal(t, []int{5, 8, 12}, skippedLines)
	assert.Equal(t, "1", records[0].ID)
	assert.Equal(t, "10", records[9].ID)
}

func TestRecords_StopsOnBadDate(t *testing.T) {
	content := "1,A,D,1,2024-01-01,Pending\n2,A,D,1,2024-13-01,Pending\n3,A,D,1,2024-01-03,Pending\n"

	var seen []string
	var gotErr error
	for rec, err := range Records([]byte(content), nil) {
		if err != nil {
			gotErr = err
			continue
		}
		seen = append(seen, rec.ID)
	}

	assert.Equal(t, []string{"1"}, seen)
	require.Error(t, gotErr)
	assert.ErrorIs(t, gotErr, apperrors.ErrInvalidDate)
	assert.Contains(t, gotErr.Error(), "line 2")

	records, err := Collect(Records([]byte(content), nil))
	assert.Nil(t, records)
	assert.ErrorIs(t, err, apperrors.ErrInvalidDate)
}

func TestRecords_BOMAndMixedLineEndings(t *testing.T) {
	content := "\uFEFFid,clientid,transaction,amount,date,status\n1,A,D,1,2024-01-01,p\r\n\r\n2,B,W,2,2024-01-02,c"

	records, err := Collect(Records([]byte(content), nil))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2", records[1].ID)
	assert.Equal(t, domain.StatusPending, records[0].Status)
	assert.Equal(t, domain.StatusPending, records[1].Status)
}

func TestRecords_EarlyBreak(t *testing.T) {
	content := "1,A,D,1,2024-01-01,Pending\n2,A,D,1,2024-01-02,Pending\n"
	count := 0
	for range Records([]byte(content), nil) {
		count++
		break
	}
	assert.Equal(t, 1, count)
}
