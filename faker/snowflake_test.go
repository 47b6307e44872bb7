package faker

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnowflake_Next(t *testing.T) {
	s := NewSnowflakeWithOptions(nil)

	id1 := s.Next()
	id2 := s.Next()
	assert.Less(t, id1, id2)

	assert.Greater(t, id1>>timestampShift, int64(0))
	assert.LessOrEqual(t, (id1>>machineIDShift)&maxMachineID, int64(maxMachineID))
}

func TestSnowflake_MachineID(t *testing.T) {
	machineID := int64(123)
	id := NewSnowflakeWithOptions(&SnowflakeOptions{MachineID: &machineID}).Next()
	assert.Equal(t, machineID, (id>>machineIDShift)&maxMachineID)

	// 超出 10 位的机器ID被截断
	machineID = 2048 + 5
	id = NewSnowflakeWithOptions(&SnowflakeOptions{MachineID: &machineID}).Next()
	assert.Equal(t, int64(5), (id>>machineIDShift)&maxMachineID)
}

func TestSnowflake_Concurrent(t *testing.T) {
	s := NewSnowflakeWithOptions(nil)

	var wg sync.WaitGroup
	var mu sync.Mutex
	ids := map[int64]bool{}
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]int64, 0, 200)
			for j := 0; j < 200; j++ {
				local = append(local, s.Next())
			}
			mu.Lock()
			defer mu.Unlock()
			for _, id := range local {
				ids[id] = true
			}
		}()
	}
	wg.Wait()

	assert.Len(t, ids, 50*200)
}
