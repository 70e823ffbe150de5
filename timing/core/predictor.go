package core

// PredictorConfig holds configuration for the branch predictor.
type PredictorConfig struct {
	// BHTSize is the number of entries in the Branch History Table.
	// Must be a power of 2. Default is 1024.
	BHTSize uint32 `json:"bht_size"`
	// BTBSize is the number of entries in the Branch Target Buffer.
	// Must be a power of 2. Default is 256.
	BTBSize uint32 `json:"btb_size"`
}

// DefaultPredictorConfig returns a default configuration.
func DefaultPredictorConfig() PredictorConfig {
	return PredictorConfig{
		BHTSize: 1024,
		BTBSize: 256,
	}
}

// PredictorStats holds statistics for the branch predictor.
type PredictorStats struct {
	// Predictions is the total number of branch predictions made.
	Predictions uint64
	// Correct is the number of correct direction predictions.
	Correct uint64
	// Mispredictions is the number of incorrect direction predictions.
	Mispredictions uint64
	// BTBHits is the number of BTB hits.
	BTBHits uint64
	// BTBMisses is the number of BTB misses.
	BTBMisses uint64
}

// Accuracy returns the prediction accuracy as a percentage.
func (s PredictorStats) Accuracy() float64 {
	if s.Predictions == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Predictions) * 100
}

// BTBHitRate returns the BTB hit rate as a percentage.
func (s PredictorStats) BTBHitRate() float64 {
	total := s.BTBHits + s.BTBMisses
	if total == 0 {
		return 0
	}
	return float64(s.BTBHits) / float64(total) * 100
}

// Prediction represents a branch prediction result.
type Prediction struct {
	// Taken indicates whether the branch is predicted to be taken.
	Taken bool
	// Target is the predicted target address (if known from BTB).
	Target uint64
	// TargetKnown indicates whether the target address is known.
	TargetKnown bool
}

// BranchPredictor implements a 2-bit saturating counter (bimodal) predictor
// with a Branch Target Buffer (BTB).
type BranchPredictor struct {
	// 2-bit counters: 0=Strongly Not Taken, 1=Weakly Not Taken,
	// 2=Weakly Taken, 3=Strongly Taken
	bht []uint8

	btb      []btbEntry
	btbValid []bool

	bhtMask uint64
	btbMask uint64

	stats PredictorStats
}

type btbEntry struct {
	pc     uint64
	target uint64
}

// NewBranchPredictor creates a new branch predictor. Zero sizes take the
// defaults and other sizes are rounded up to a power of 2.
func NewBranchPredictor(config PredictorConfig) *BranchPredictor {
	defaults := DefaultPredictorConfig()
	bhtSize := ceilPow2(config.BHTSize, defaults.BHTSize)
	btbSize := ceilPow2(config.BTBSize, defaults.BTBSize)

	bp := &BranchPredictor{
		bht:      make([]uint8, bhtSize),
		btb:      make([]btbEntry, btbSize),
		btbValid: make([]bool, btbSize),
		bhtMask:  uint64(bhtSize - 1),
		btbMask:  uint64(btbSize - 1),
	}
	bp.Reset()

	return bp
}

func ceilPow2(n, fallback uint32) uint32 {
	if n == 0 {
		return fallback
	}
	p := uint32(1)
	for p < n {
		p <<= 1
	}
	return p
}

// Instructions are 4-byte aligned, so the low two PC bits are dropped.
func (bp *BranchPredictor) bhtIndex(pc uint64) uint64 {
	return (pc >> 2) & bp.bhtMask
}

func (bp *BranchPredictor) btbIndex(pc uint64) uint64 {
	return (pc >> 2) & bp.btbMask
}

// Predict makes a branch prediction for the given PC.
func (bp *BranchPredictor) Predict(pc uint64) Prediction {
	pred := Prediction{Taken: bp.bht[bp.bhtIndex(pc)] >= 2}

	idx := bp.btbIndex(pc)
	if bp.btbValid[idx] && bp.btb[idx].pc == pc {
		pred.Target = bp.btb[idx].target
		pred.TargetKnown = true
		bp.stats.BTBHits++
	} else {
		bp.stats.BTBMisses++
	}

	bp.stats.Predictions++
	return pred
}

// Update trains the predictor with the actual branch outcome.
func (bp *BranchPredictor) Update(pc uint64, taken bool, target uint64) {
	idx := bp.bhtIndex(pc)
	counter := bp.bht[idx]

	if (counter >= 2) == taken {
		bp.stats.Correct++
	} else {
		bp.stats.Mispredictions++
	}

	switch {
	case taken && counter < 3:
		bp.bht[idx] = counter + 1
	case !taken && counter > 0:
		bp.bht[idx] = counter - 1
	}

	if taken {
		btbIdx := bp.btbIndex(pc)
		bp.btb[btbIdx] = btbEntry{pc: pc, target: target}
		bp.btbValid[btbIdx] = true
	}
}

// Stats returns the branch predictor statistics.
func (bp *BranchPredictor) Stats() PredictorStats {
	return bp.stats
}

// Reset clears all predictor state and statistics. Counters start weakly
// taken.
func (bp *BranchPredictor) Reset() {
	for i := range bp.bht {
		bp.bht[i] = 2
	}
	for i := range bp.btbValid {
		bp.btbValid[i] = false
	}
	bp.stats = PredictorStats{}
}
