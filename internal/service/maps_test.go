package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripboard/internal/decode"
	"github.com/pkordes/tripboard/internal/domain"
	"github.com/pkordes/tripboard/internal/repo"
	"github.com/pkordes/tripboard/internal/service"
)

const styledKML = `<kml><Document>
  <Style id="red"><IconStyle><color>ff0000ff</color><Icon><href>https://maps/pin-red.png</href></Icon></IconStyle></Style>
  <Style id="blank"><IconStyle><Icon><href>https://maps/blank_maps.png</href></Icon></IconStyle></Style>
  <Folder><name>Food</name>
    <Placemark><name>Mercado</name><styleUrl>#red</styleUrl><Point><coordinates>-16.90,32.65</coordinates></Point></Placemark>
  </Folder>
  <Folder><name>Hikes</name>
    <Placemark><name>Pico</name><styleUrl>#blank</styleUrl><Point><coordinates>-16.94,32.75</coordinates></Point></Placemark>
  </Folder>
</Document></kml>`

func newMapService(src service.KMLSource) (*service.MapService, *repo.Doc[*geojson.FeatureCollection]) {
	doc := newDoc[*geojson.FeatureCollection](domain.KeyMapGeoJSON)
	return service.NewMapService(doc, src, nil), doc
}

func TestMapService_ImportKML_Annotated(t *testing.T) {
	svc, _ := newMapService(nil)

	fc, err := svc.ImportKML(context.Background(), []byte(styledKML), true)

	require.NoError(t, err)
	require.Len(t, fc.Features, 2)
	props := fc.Features[0].Properties
	assert.Equal(t, "#ff0000", props[decode.PropColor])
	assert.Equal(t, "Food", props[decode.PropLayer])

	stored, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored.Features, 2)
}

func TestMapService_ImportKML_Plain(t *testing.T) {
	svc, _ := newMapService(nil)

	fc, err := svc.ImportKML(context.Background(), []byte(styledKML), false)

	require.NoError(t, err)
	_, ok := fc.Features[0].Properties[decode.PropLayer]
	assert.False(t, ok)
}

func TestMapService_ImportMyMaps_FailureKeepsMap(t *testing.T) {
	svc, doc := newMapService(&mockKMLSource{
		fetchKML: func(context.Context, string) ([]byte, error) { return nil, errors.New("403") },
	})
	existing := geojson.NewFeatureCollection()
	existing.Append(geojson.NewFeature(orb.Point{1, 2}))
	seed(t, doc, existing)

	_, err := svc.ImportMyMaps(context.Background(), "https://www.google.com/maps/d/viewer?mid=abc")

	assert.Error(t, err)
	assert.Len(t, load(t, doc).Features, 1)
}

func TestMapService_ImportMyMaps(t *testing.T) {
	var asked string
	svc, _ := newMapService(&mockKMLSource{
		fetchKML: func(_ context.Context, link string) ([]byte, error) {
			asked = link
			return []byte(styledKML), nil
		},
	})

	fc, err := svc.ImportMyMaps(context.Background(), "1AbCdEfGhIj")

	require.NoError(t, err)
	assert.Equal(t, "1AbCdEfGhIj", asked)
	assert.Equal(t, "Hikes", fc.Features[1].Properties[decode.PropLayer])
}

func TestMapService_GetAndClear(t *testing.T) {
	svc, _ := newMapService(nil)

	fc, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Empty(t, fc.Features)

	_, err = svc.ImportKML(context.Background(), []byte(styledKML), true)
	require.NoError(t, err)
	require.NoError(t, svc.Clear(context.Background()))

	fc, err = svc.Get(context.Background())
	require.NoError(t, err)
	assert.Empty(t, fc.Features)
}

func TestLegend(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	add := func(props geojson.Properties) {
		f := geojson.NewFeature(orb.Point{0, 0})
		f.Properties = props
		fc.Append(f)
	}
	add(geojson.Properties{decode.PropLayer: "Food", decode.PropIcon: "https://maps/red.png", decode.PropColor: "#ff0000"})
	add(geojson.Properties{decode.PropLayer: "Food"})
	add(geojson.Properties{decode.PropLayer: "Hikes", decode.PropIcon: "https://maps/blank.png"})
	add(geojson.Properties{"name": "loose"})

	got := service.Legend(fc)

	assert.Equal(t, []domain.LegendEntry{
		{Layer: "Food", Icon: "https://maps/red.png", Color: "#ff0000", Count: 2},
		{Layer: "Hikes", Count: 1},
		{Layer: service.DefaultLayer, Count: 1},
	}, got)
}
