package types

import "github.com/exthereum/ethereum/crypto"

// BloomByteLength is the number of bytes in a logs bloom filter.
const BloomByteLength = 256

// BloomBitLength is the bit length of the bloom filter (2048 bits).
const BloomBitLength = 8 * BloomByteLength

// Bloom is the 2048-bit logs bloom filter carried in a block header and
// receipt, per §3 "Block header"/"Receipt".
type Bloom [BloomByteLength]byte

// Add ORs the 3-hash Keccak bloom projection of data into the filter,
// using the same bit-selection rule as go-ethereum: for each of the three
// 11-bit windows taken from Keccak256(data), set bit (2047 - window) of
// the 2048-bit filter.
func (b *Bloom) Add(data []byte) {
	h := crypto.Keccak256(data)
	for i := 0; i < 6; i += 2 {
		bit := (uint(h[i+1]) + (uint(h[i]) << 8)) & 0x7ff
		b[BloomByteLength-1-bit/8] |= 1 << (bit % 8)
	}
}

// Test reports whether data's bloom projection is a subset of b (i.e. data
// is possibly present; false negatives are impossible, false positives are
// expected and part of the design).
func (b Bloom) Test(data []byte) bool {
	var probe Bloom
	probe.Add(data)
	for i := range probe {
		if probe[i]&b[i] != probe[i] {
			return false
		}
	}
	return true
}

// Bytes returns the bloom filter as a byte slice.
func (b Bloom) Bytes() []byte { return b[:] }

// CreateBloom computes the logs bloom for a set of logs: the union of each
// log's address and topic projections, per §3 "Receipt".
func CreateBloom(logs []*Log) Bloom {
	var b Bloom
	for _, log := range logs {
		b.Add(log.Address.Bytes())
		for _, topic := range log.Topics {
			b.Add(topic.Bytes())
		}
	}
	return b
}
