package market

import (
	"crypto/rand"
	"encoding/binary"
	"hash/fnv"
	mathrand "math/rand"
)

// Stream keys. Each deterministic draw site combines its entity seed with the
// day through its own prime so two sites never share a sequence.
const (
	priceDayPrime  = int64(104729)
	trendDayPrime  = int64(1931)
	newsDayPrime   = int64(6151)
	travelDayPrime = int64(92821)
)

// Stream returns a generator whose sequence depends only on seed.
func Stream(seed int64) *mathrand.Rand {
	return mathrand.New(mathrand.NewSource(seed))
}

func PriceStream(locationSeed int64, day int) *mathrand.Rand {
	return Stream(locationSeed + int64(day)*priceDayPrime)
}

func TrendStream(goodSeed int64, day int) *mathrand.Rand {
	return Stream(goodSeed + int64(day)*trendDayPrime)
}

func NewsStream(newsSeed int64, day int) *mathrand.Rand {
	return Stream(newsSeed + int64(day)*newsDayPrime)
}

func TravelStream(locationSeed int64, day int) *mathrand.Rand {
	return Stream(int64(day)*travelDayPrime + locationSeed)
}

// Uniform draws from [lo, hi).
func Uniform(r *mathrand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*r.Float64()
}

// Entropy is the only non-deterministic source the engine accepts. It is used
// when a charter is created or restarted; *math/rand.Rand satisfies it.
type Entropy interface {
	Int63n(n int64) int64
	Float64() float64
}

// CryptoEntropy reads from crypto/rand.
type CryptoEntropy struct{}

func (CryptoEntropy) Float64() float64 {
	// 53 bits for a uniform float64 in [0, 1).
	return float64(cryptoUint64()>>11) / float64(1<<53)
}

func (CryptoEntropy) Int63n(n int64) int64 {
	if n <= 0 {
		panic("market: invalid argument to Int63n")
	}
	max := uint64(1<<63 - 1)
	limit := max - max%uint64(n)
	for {
		v := cryptoUint64() >> 1
		if v < limit {
			return int64(v % uint64(n))
		}
	}
}

func cryptoUint64() uint64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand does not fail on supported platforms.
		panic(err)
	}
	return binary.LittleEndian.Uint64(buf[:])
}

func nameHash32(name string) int64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return int64(h.Sum32())
}

func nameHash64(name string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return int64(h.Sum64())
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
