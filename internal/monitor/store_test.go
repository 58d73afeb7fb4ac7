package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mitchelljqegan/process-overseer/internal/types"
)

func TestStore_AppendAndQueryByPID(t *testing.T) {
	s := New()
	s.Append(Sample{PID: 1, When: "t0", Argv: "a", Bytes: 10})
	s.Append(Sample{PID: 2, When: "t0", Argv: "b", Bytes: 20})
	s.Append(Sample{PID: 1, When: "t1", Argv: "a", Bytes: 15})

	got := s.QueryByPID(1)
	assert.Equal(t, []Sample{
		{PID: 1, When: "t0", Argv: "a", Bytes: 10},
		{PID: 1, When: "t1", Argv: "a", Bytes: 15},
	}, got)

	assert.Empty(t, s.QueryByPID(999))
}

func TestStore_QueryAll_LatestBytesFirstArgv(t *testing.T) {
	s := New()
	s.Append(Sample{PID: 1, When: "t0", Argv: "first-argv", Bytes: 10})
	s.Append(Sample{PID: 1, When: "t1", Argv: "second-argv-ignored", Bytes: 99})
	s.Append(Sample{PID: 2, When: "t0", Argv: "other", Bytes: 5})

	got := s.QueryAll()
	assert.Equal(t, []Aggregate{
		{PID: 1, Bytes: 99, Argv: "first-argv"},
		{PID: 2, Bytes: 5, Argv: "other"},
	}, got)
}

func TestStore_Purge(t *testing.T) {
	s := New()
	s.Append(Sample{PID: 1, When: "t0", Argv: "a", Bytes: 10})
	s.Append(Sample{PID: 2, When: "t0", Argv: "b", Bytes: 20})

	s.Purge(1)

	assert.Empty(t, s.QueryByPID(1))
	assert.Len(t, s.QueryByPID(2), 1)
	assert.Len(t, s.QueryAll(), 1)
}

func TestStore_QueryAll_NoTruncationPastFive(t *testing.T) {
	s := New()
	for pid := 1; pid <= 8; pid++ {
		s.Append(Sample{PID: pid, When: "t0", Argv: "x", Bytes: types.Bytes(pid)})
	}
	assert.Len(t, s.QueryAll(), 8, "all pids must be returned, not just the first five")
}
