package report

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"depot-router/internal/distance"
	"depot-router/internal/models"
)

// GeoJSON renders depots, customers and the non-trivial routes of sol as a
// feature collection in planar instance coordinates.
func GeoJSON(in *models.Instance, sol models.Solution) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	points := in.Points()

	for _, d := range in.Depots {
		f := geojson.NewFeature(orb.Point{d.X, d.Y})
		f.Properties["kind"] = "depot"
		f.Properties["id"] = d.ID
		fc.Append(f)
	}
	for _, c := range in.Customers {
		f := geojson.NewFeature(orb.Point{c.X, c.Y})
		f.Properties["kind"] = "customer"
		f.Properties["id"] = c.ID
		f.Properties["node"] = in.CustomerNode(c.ID)
		f.Properties["demand"] = c.Demand
		fc.Append(f)
	}

	if len(sol) == 0 {
		return fc
	}
	matrix := distance.NewInstanceMatrix(in)
	for i, r := range sol {
		if r.IsTrivial() {
			continue
		}
		ls := orb.LineString{}
		for _, node := range r {
			ls = append(ls, orb.Point{points[node].X, points[node].Y})
		}
		f := geojson.NewFeature(ls)
		f.Properties["kind"] = "route"
		f.Properties["depot"] = r.Depot()
		f.Properties["vehicle"] = i % len(in.Vehicles)
		f.Properties["length"] = distance.PathLength(matrix, r)
		fc.Append(f)
	}
	return fc
}

// MarshalGeoJSON encodes the GeoJSON rendering of sol
func MarshalGeoJSON(in *models.Instance, sol models.Solution) ([]byte, error) {
	return GeoJSON(in, sol).MarshalJSON()
}
