package database

// Video list orders
const (
	VideoSortPathNat  = "path_nat"
	VideoSortPathAsc  = "path_asc"
	VideoSortAddedAsc = "added_asc"
)

const DefaultVideoSort = VideoSortPathNat

// IsValidVideoSort checks if a string is a valid video sort order constant
func IsValidVideoSort(order string) bool {
	switch order {
	case VideoSortPathNat, VideoSortPathAsc, VideoSortAddedAsc:
		return true
	default:
		return false
	}
}
