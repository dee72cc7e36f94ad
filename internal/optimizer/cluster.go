package optimizer

import (
	"sort"

	"github.com/tripcast/tripcast/internal/geo"
	"github.com/tripcast/tripcast/internal/itinerary"
)

// DefaultClusterRadiusKm is the default proximity radius for grouping
// activities into a cluster.
const DefaultClusterRadiusKm = 5.0

// Cluster is a group of activities within walking distance of a seed
// activity. Clusters are never empty.
type Cluster struct {
	// Activities in input order as discovered by the seed scan.
	Activities []itinerary.Activity
}

// Centroid returns the geographic center of the cluster.
func (c *Cluster) Centroid() (geo.Coordinate, error) {
	points := make([]geo.Coordinate, 0, len(c.Activities))
	for i := range c.Activities {
		if c.Activities[i].Location != nil {
			points = append(points, *c.Activities[i].Location)
		}
	}
	return geo.Centroid(points)
}

// Clusterer groups a day's activities into spatial clusters.
type Clusterer struct {
	radiusKm float64
}

// NewClusterer creates a new Clusterer. A non-positive radius falls back
// to DefaultClusterRadiusKm.
func NewClusterer(radiusKm float64) *Clusterer {
	if radiusKm <= 0 {
		radiusKm = DefaultClusterRadiusKm
	}
	return &Clusterer{radiusKm: radiusKm}
}

// RadiusKm returns the configured proximity radius.
func (c *Clusterer) RadiusKm() float64 {
	return c.radiusKm
}

// Cluster groups activities by greedy single-link seed clustering: iterate
// activities in input order; each unclustered activity seeds a new cluster
// and absorbs every later unclustered activity within the radius of the
// seed (not full link propagation). This bounds the work to O(n²) and keeps
// cluster shape deterministic for a fixed input order. Activities without a
// location are skipped; the caller keeps them at their original positions.
func (c *Clusterer) Cluster(activities []itinerary.Activity) []Cluster {
	clustered := make([]bool, len(activities))
	var clusters []Cluster

	for i := range activities {
		if clustered[i] || activities[i].Location == nil {
			continue
		}

		seed := activities[i]
		clustered[i] = true
		members := []itinerary.Activity{seed}

		for j := i + 1; j < len(activities); j++ {
			if clustered[j] || activities[j].Location == nil {
				continue
			}
			if geo.DistanceKm(*seed.Location, *activities[j].Location) <= c.radiusKm {
				clustered[j] = true
				members = append(members, activities[j])
			}
		}

		clusters = append(clusters, Cluster{Activities: members})
	}

	return clusters
}

// Linearize flattens clusters back into a single visiting order: clusters
// in discovery order, and within each cluster activities sorted by
// preferred time of day with input order as the tie-break. The tie-break
// must be deterministic so repeated runs produce identical itineraries.
func Linearize(clusters []Cluster) []itinerary.Activity {
	var ordered []itinerary.Activity

	for ci := range clusters {
		members := make([]itinerary.Activity, len(clusters[ci].Activities))
		copy(members, clusters[ci].Activities)

		// Stable sort keeps input order within equal time slots.
		sort.SliceStable(members, func(a, b int) bool {
			return members[a].PreferredTimeOfDay.Rank() < members[b].PreferredTimeOfDay.Rank()
		})

		ordered = append(ordered, members...)
	}

	return ordered
}
