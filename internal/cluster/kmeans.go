package cluster

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// KMeansOptions controls a k-means run
type KMeansOptions struct {
	K             int
	Seed          int64
	MaxIterations int
	Restarts      int // Independent k-means++ initializations; the lowest inertia wins
}

// KMeansResult is the outcome of the best restart
type KMeansResult struct {
	Labels    []int
	Centroids *mat.Dense
	Inertia   float64 // Sum of squared distances to assigned centroids
}

// KMeans partitions the rows of data into opts.K clusters by Euclidean distance.
// All randomness comes from a generator seeded with opts.Seed, so the same
// input and options always produce the same labels.
func KMeans(data *mat.Dense, opts KMeansOptions) KMeansResult {
	n, _ := data.Dims()
	k := opts.K
	if k > n {
		k = n
	}
	if k < 1 {
		k = 1
	}

	restarts := opts.Restarts
	if restarts < 1 {
		restarts = 1
	}

	rng := rand.New(rand.NewSource(opts.Seed))

	var best KMeansResult
	for r := 0; r < restarts; r++ {
		result := runKMeans(data, k, opts.MaxIterations, rng)
		if r == 0 || result.Inertia < best.Inertia {
			best = result
		}
	}

	return best
}

func runKMeans(data *mat.Dense, k, maxIterations int, rng *rand.Rand) KMeansResult {
	n, _ := data.Dims()
	centroids := initializeCentroidsKMeansPlusPlus(data, k, rng)

	labels := make([]int, n)
	for i := range labels {
		labels[i] = -1
	}

	if maxIterations < 1 {
		maxIterations = 1
	}

	for iter := 0; iter < maxIterations; iter++ {
		changed := assignPoints(data, centroids, labels)
		if !changed {
			break
		}
		updateCentroids(data, labels, centroids)
	}

	return KMeansResult{
		Labels:    labels,
		Centroids: centroids,
		Inertia:   inertia(data, centroids, labels),
	}
}

// initializeCentroidsKMeansPlusPlus picks the first centroid uniformly and each
// following one with probability proportional to its squared distance from the
// nearest chosen centroid
func initializeCentroidsKMeansPlusPlus(data *mat.Dense, k int, rng *rand.Rand) *mat.Dense {
	n, d := data.Dims()
	centroids := mat.NewDense(k, d, nil)

	centroids.SetRow(0, data.RawRowView(rng.Intn(n)))

	distances := make([]float64, n)
	for i := 1; i < k; i++ {
		for j := 0; j < n; j++ {
			point := data.RawRowView(j)
			minDist := math.Inf(1)
			for c := 0; c < i; c++ {
				dist := squaredDistance(point, centroids.RawRowView(c))
				if dist < minDist {
					minDist = dist
				}
			}
			distances[j] = minDist
		}

		totalWeight := floats.Sum(distances)
		if totalWeight == 0 {
			// All points coincide with chosen centroids
			centroids.SetRow(i, data.RawRowView(rng.Intn(n)))
			continue
		}

		target := rng.Float64() * totalWeight
		cumWeight := 0.0
		chosen := n - 1
		for j, dist := range distances {
			cumWeight += dist
			if cumWeight >= target && dist > 0 {
				chosen = j
				break
			}
		}
		centroids.SetRow(i, data.RawRowView(chosen))
	}

	return centroids
}

// assignPoints moves every point to its nearest centroid and reports whether
// any label changed. Ties go to the lower centroid index.
func assignPoints(data, centroids *mat.Dense, labels []int) bool {
	n, _ := data.Dims()
	k, _ := centroids.Dims()
	changed := false

	for i := 0; i < n; i++ {
		point := data.RawRowView(i)
		minDist := math.Inf(1)
		bestCluster := 0

		for j := 0; j < k; j++ {
			dist := squaredDistance(point, centroids.RawRowView(j))
			if dist < minDist {
				minDist = dist
				bestCluster = j
			}
		}

		if labels[i] != bestCluster {
			labels[i] = bestCluster
			changed = true
		}
	}

	return changed
}

// updateCentroids recomputes each centroid as the mean of its points.
// A centroid with no points keeps its position.
func updateCentroids(data *mat.Dense, labels []int, centroids *mat.Dense) {
	k, d := centroids.Dims()
	sums := mat.NewDense(k, d, nil)
	counts := make([]int, k)

	for i, label := range labels {
		floats.Add(sums.RawRowView(label), data.RawRowView(i))
		counts[label]++
	}

	for c := 0; c < k; c++ {
		if counts[c] == 0 {
			continue
		}
		row := sums.RawRowView(c)
		floats.Scale(1/float64(counts[c]), row)
		centroids.SetRow(c, row)
	}
}

func inertia(data, centroids *mat.Dense, labels []int) float64 {
	total := 0.0
	for i, label := range labels {
		total += squaredDistance(data.RawRowView(i), centroids.RawRowView(label))
	}
	return total
}

func squaredDistance(a, b []float64) float64 {
	dist := floats.Distance(a, b, 2)
	return dist * dist
}
