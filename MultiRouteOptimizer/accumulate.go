package MultiRouteOptimizer

import "Loopless/DistanceMatrix"

// AccumulatePath annotates an ordered route with the running road distance at each stop
// and appends the return to the first stop.
//
// The returning entry carries totalMeters, the solver's own total, not the sum of the
// reconstructed legs.
func AccumulatePath(path []Waypoint, matrix DistanceMatrix.Matrix, totalMeters float64) []PathLeg {
	if len(path) == 0 {
		return nil
	}

	legs := make([]PathLeg, 0, len(path)+1)
	var running float64
	for i, waypoint := range path {
		if i > 0 {
			running += legDistance(matrix, path[i-1], waypoint)
		}
		legs = append(legs, PathLeg{
			Waypoint:    waypoint,
			Running:     running,
			Accumulated: formatKilometers(running),
			IsStart:     i == 0,
		})
	}

	legs = append(legs, PathLeg{
		Waypoint:    path[0],
		Running:     totalMeters,
		Accumulated: formatKilometers(totalMeters),
		IsReturn:    true,
	})
	return legs
}

// legDistance is 0 for pairs outside the matrix
func legDistance(matrix DistanceMatrix.Matrix, from, to Waypoint) float64 {
	if from.OriginalIdx < 0 || from.OriginalIdx >= len(matrix) {
		return 0
	}
	row := matrix[from.OriginalIdx]
	if to.OriginalIdx < 0 || to.OriginalIdx >= len(row) {
		return 0
	}
	return row[to.OriginalIdx]
}
