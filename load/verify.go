package load

// verifyThreshold is the fraction of written rows a post-load count has to
// reach for verification to pass.
const verifyThreshold = 0.95

// VerifyRowCount compares a post-load database count against the rows the
// loader wrote. A run that wrote nothing cannot verify.
func VerifyRowCount(written, counted uint64) (ratio float64, ok bool) {
	if written == 0 {
		return 0, false
	}
	ratio = float64(counted) / float64(written)
	return ratio, ratio >= verifyThreshold
}
