package sysvar

import (
	"fmt"

	"github.com/near/borsh-go"
)

// AccountStorageOverhead 每个账户在数据之外额外计费的字节数
const AccountStorageOverhead uint64 = 128

const (
	DefaultLamportsPerByteYear uint64  = 3480
	DefaultExemptionThreshold  float64 = 2.0
	DefaultBurnPercent         uint8   = 50
)

// RentSize rent sysvar 账户数据长度（u64 + f64 + u8）
const RentSize = 17

// Rent rent sysvar 的链上布局，字段顺序即序列化顺序
type Rent struct {
	LamportsPerByteYear uint64
	ExemptionThreshold  float64
	BurnPercent         uint8
}

func DefaultRent() Rent {
	return Rent{
		LamportsPerByteYear: DefaultLamportsPerByteYear,
		ExemptionThreshold:  DefaultExemptionThreshold,
		BurnPercent:         DefaultBurnPercent,
	}
}

// RentFromData 解析 rent sysvar 账户数据
func RentFromData(data []byte) (Rent, error) {
	if len(data) < RentSize {
		return Rent{}, fmt.Errorf("rent sysvar data too short: %d", len(data))
	}
	var r Rent
	if err := borsh.Deserialize(&r, data[:RentSize]); err != nil {
		return Rent{}, fmt.Errorf("decode rent sysvar: %w", err)
	}
	return r, nil
}

// Data 返回 rent sysvar 账户数据
func (r Rent) Data() []byte {
	data, err := borsh.Serialize(r)
	if err != nil {
		// 定长数值字段不会序列化失败
		panic(err)
	}
	return data
}

// MinimumBalance 免租所需的最低余额
func (r Rent) MinimumBalance(dataLen int) uint64 {
	bytes := AccountStorageOverhead + uint64(dataLen)
	return uint64(float64(bytes*r.LamportsPerByteYear) * r.ExemptionThreshold)
}

// IsExempt 余额是否足以让该长度的账户免租
func (r Rent) IsExempt(balance uint64, dataLen int) bool {
	return balance >= r.MinimumBalance(dataLen)
}
