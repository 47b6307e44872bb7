package faker

import (
	"net"
	"sync/atomic"
	"time"
)

type SnowflakeOptions struct {
	// 机器ID，为空时从本机 IPv4 地址的后两个字节获取
	MachineID *int64 `cfg:"machineID" yaml:"machineID"`
}

// Snowflake 并发安全的递增 ID 生成器，用于需要唯一主键的场景
// 64位结构：1位符号位(0) + 41位时间戳 + 10位机器ID + 12位序列号
type Snowflake struct {
	state     int64 // 高52位时间戳 + 低12位序列号
	machineID int64
	epoch     int64
}

const (
	sequenceBits  = 12
	machineIDBits = 10

	maxSequence  = (1 << sequenceBits) - 1
	maxMachineID = (1 << machineIDBits) - 1

	machineIDShift = sequenceBits
	timestampShift = sequenceBits + machineIDBits
)

var snowflakeEpoch = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli()

func NewSnowflakeWithOptions(options *SnowflakeOptions) *Snowflake {
	var machineID int64
	if options != nil && options.MachineID != nil {
		machineID = *options.MachineID
	} else {
		machineID = machineIDFromIP()
	}

	return &Snowflake{
		state:     (time.Now().UnixMilli() - snowflakeEpoch) << sequenceBits,
		machineID: machineID & maxMachineID,
		epoch:     snowflakeEpoch,
	}
}

func machineIDFromIP() int64 {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return 0
	}
	for _, addr := range addrs {
		if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
			if ipv4 := ipnet.IP.To4(); ipv4 != nil {
				return int64(ipv4[2])<<8 | int64(ipv4[3])
			}
		}
	}
	return 0
}

// Next 返回下一个 ID，同一毫秒内序列号用完时等待下一毫秒
func (s *Snowflake) Next() int64 {
	for {
		oldState := atomic.LoadInt64(&s.state)
		oldTimestamp := oldState >> sequenceBits
		oldSequence := oldState & maxSequence

		timestamp := time.Now().UnixMilli() - s.epoch
		sequence := int64(0)
		if timestamp <= oldTimestamp {
			// 时钟回拨时沿用旧的时间戳
			timestamp = oldTimestamp
			sequence = (oldSequence + 1) & maxSequence
			if sequence == 0 {
				for timestamp <= oldTimestamp {
					timestamp = time.Now().UnixMilli() - s.epoch
				}
			}
		}

		if atomic.CompareAndSwapInt64(&s.state, oldState, timestamp<<sequenceBits|sequence) {
			return timestamp<<timestampShift | s.machineID<<machineIDShift | sequence
		}
	}
}
