package snowflake

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"
)

// Epoch is June 1, 2025 00:00:00 UTC. IDs embed milliseconds since this
// point, so they sort by creation time.
const epoch int64 = 1748736000000

// Layout: 41 bits timestamp, 5 bits worker, 5 bits process, 12 bits sequence.
const (
	workerIDBits  = 5
	processIDBits = 5
	sequenceBits  = 12

	maxWorkerID  = (1 << workerIDBits) - 1
	maxProcessID = (1 << processIDBits) - 1
	maxSequence  = (1 << sequenceBits) - 1

	processIDShift = sequenceBits
	workerIDShift  = sequenceBits + processIDBits
	timestampShift = sequenceBits + processIDBits + workerIDBits
)

// ID is a time-ordered unique identifier. It marshals to JSON as a decimal
// string because int64 loses precision in JavaScript number types.
type ID int64

func (id ID) Int64() int64 {
	return int64(id)
}

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

func (id *ID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// Accept a bare number too.
		var n int64
		if nerr := json.Unmarshal(data, &n); nerr != nil {
			return fmt.Errorf("snowflake: cannot unmarshal %s: %w", string(data), err)
		}
		*id = ID(n)
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("snowflake: invalid id string %q: %w", s, err)
	}
	*id = ID(n)
	return nil
}

// Generator produces unique IDs. Safe for concurrent use.
type Generator struct {
	mu        sync.Mutex
	workerID  int64
	processID int64
	sequence  int64
	lastTime  int64
}

// NewGenerator creates a generator. Worker and process IDs must fit in 5
// bits each ([0, 31]); two generators sharing both values can collide.
func NewGenerator(workerID, processID int64) (*Generator, error) {
	if workerID < 0 || workerID > maxWorkerID {
		return nil, fmt.Errorf("snowflake: worker id %d out of range [0, %d]", workerID, maxWorkerID)
	}
	if processID < 0 || processID > maxProcessID {
		return nil, fmt.Errorf("snowflake: process id %d out of range [0, %d]", processID, maxProcessID)
	}
	return &Generator{workerID: workerID, processID: processID}, nil
}

// Generate returns the next ID.
func (g *Generator) Generate() ID {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now().UnixMilli() - epoch
	if now == g.lastTime {
		g.sequence = (g.sequence + 1) & maxSequence
		if g.sequence == 0 {
			// 4096 IDs in one millisecond; wait out the clock.
			for now <= g.lastTime {
				now = time.Now().UnixMilli() - epoch
			}
		}
	} else {
		g.sequence = 0
	}
	g.lastTime = now

	return ID(now<<timestampShift |
		g.workerID<<workerIDShift |
		g.processID<<processIDShift |
		g.sequence)
}

// Timestamp returns the creation time embedded in an ID.
func Timestamp(id int64) time.Time {
	return time.UnixMilli((id >> timestampShift) + epoch)
}
