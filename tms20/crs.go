package tms20

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/creasty/defaults"
	"github.com/perimeterx/marshmallow"
)

// CRS is a coordinate reference system given as a URI or as ProjJSON.
type CRS interface {
	Description() string
	AuthorityName() string
	AuthorityCode() string
}

// unmarshalCRS accepts a plain URI string, an object with a "uri" or an object with a "wkt".
func unmarshalCRS(raw interface{}) (CRS, error) {
	if uri, ok := raw.(string); ok {
		crs := &URICRS{asString: true}
		if err := crs.UnmarshalJSONFromMap(map[string]interface{}{"uri": uri}); err != nil {
			return nil, err
		}
		return crs, nil
	}
	rawMap, ok := raw.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf(`wrong type for key "crs": %T`, raw)
	}

	var uriCRS URICRS
	uriErr := uriCRS.UnmarshalJSONFromMap(rawMap)
	if uriErr == nil {
		return &uriCRS, nil
	}
	var wktCRS WKTCRS
	wktErr := wktCRS.UnmarshalJSONFromMap(rawMap)
	if wktErr == nil {
		return &wktCRS, nil
	}
	return nil, fmt.Errorf("crs is neither a uri nor a wkt crs: %w", errors.Join(uriErr, wktErr))
}

var (
	crsURIRegexURL = regexp.MustCompile("https?://.+/def/crs/(?P<authority>[^/]+)/[^/]+/(?P<code>[^/]+)$")
	crsURIRegexURN = regexp.MustCompile("^urn:ogc:def:crs:(?P<authority>[^:]+)::(?P<code>[^:]+)$")
)

// URICRS references a CRS by URL or URN, e.g. http://www.opengis.net/def/crs/EPSG/0/3857.
type URICRS struct {
	description   string
	uri           string `validate:"required,uri"`
	authorityName string `validate:"required"`
	authorityCode string `validate:"required"`
	// marshal as a plain string, the way it was read
	asString bool
}

func (crs *URICRS) MarshalJSON() ([]byte, error) {
	if crs.asString {
		return json.Marshal(crs.uri)
	}
	return json.Marshal(struct {
		Description string `json:"description,omitempty"`
		URI         string `json:"uri"`
	}{
		Description: crs.description,
		URI:         crs.uri,
	})
}

func (crs *URICRS) UnmarshalJSONFromMap(data interface{}) error {
	dataMap, ok := data.(map[string]interface{})
	if !ok {
		return fmt.Errorf(`data is not a map but a %T`, data)
	}
	if crs.description, ok = optionalString(dataMap, "description"); !ok {
		return errors.New("description is not a string")
	}
	rawURI, ok := dataMap["uri"]
	if !ok {
		return errors.New("uri property not found")
	}
	if crs.uri, ok = rawURI.(string); !ok {
		return fmt.Errorf("uri property is not a string but a %T", rawURI)
	}

	parts := crsURIRegexURL.FindStringSubmatch(crs.uri)
	if parts == nil {
		parts = crsURIRegexURN.FindStringSubmatch(crs.uri)
	}
	if parts == nil {
		return fmt.Errorf("could not parse crs uri %q", crs.uri)
	}
	crs.authorityName, crs.authorityCode = parts[1], parts[2]
	return validate.Struct(crs)
}

func (crs *URICRS) Description() string   { return crs.description }
func (crs *URICRS) AuthorityName() string { return crs.authorityName }
func (crs *URICRS) AuthorityCode() string { return crs.authorityCode }

// WKTCRS is a CRS in ProjJSON, of which only the id is read.
type WKTCRS struct {
	description string
	wkt         ProjJSON
	originalWKT map[string]interface{}
}

type ProjJSON struct {
	ID ProjJSONID `validate:"required" json:"id"`
}

type ProjJSONID struct {
	AuthorityName string `validate:"required" json:"authority"`
	AuthorityCode string `validate:"required" json:"code"`
}

func (crs *WKTCRS) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Description string                 `json:"description,omitempty"`
		WKT         map[string]interface{} `json:"wkt"`
	}{
		Description: crs.description,
		WKT:         crs.originalWKT,
	})
}

func (crs *WKTCRS) UnmarshalJSONFromMap(data interface{}) error {
	dataMap, ok := data.(map[string]interface{})
	if !ok {
		return fmt.Errorf(`data is not a map but a %T`, data)
	}
	if crs.description, ok = optionalString(dataMap, "description"); !ok {
		return errors.New("description is not a string")
	}
	rawWKT, ok := dataMap["wkt"]
	if !ok {
		return errors.New("wkt property not found")
	}
	if crs.originalWKT, ok = rawWKT.(map[string]interface{}); !ok {
		return fmt.Errorf("wkt property is not an object but a %T", rawWKT)
	}
	if _, err := marshmallow.UnmarshalFromJSONMap(crs.originalWKT, &crs.wkt); err != nil {
		return fmt.Errorf("could not read wkt as ProjJSON: %w", err)
	}
	return validate.Struct(crs.wkt)
}

func (crs *WKTCRS) Description() string   { return crs.description }
func (crs *WKTCRS) AuthorityName() string { return crs.wkt.ID.AuthorityName }
func (crs *WKTCRS) AuthorityCode() string { return crs.wkt.ID.AuthorityCode }

func optionalString(m map[string]interface{}, key string) (string, bool) {
	raw, present := m[key]
	if !present {
		return "", true
	}
	s, ok := raw.(string)
	return s, ok
}

// TwoDBoundingBox is the extent of the set in the CRS given by the box or else by the set.
type TwoDBoundingBox struct {
	LowerLeft   TwoDPoint `validate:"required" json:"lowerLeft"`
	UpperRight  TwoDPoint `validate:"required" json:"upperRight"`
	CRS         CRS       `json:"-"`
	OrderedAxes []string  `validate:"omitempty,len=2" json:"orderedAxes,omitempty"`
}

func (bb *TwoDBoundingBox) MarshalJSON() ([]byte, error) {
	var crs *CRS
	if bb.CRS != nil {
		crs = &bb.CRS
	}
	return json.Marshal(struct {
		TwoDBoundingBox      // a value, the pointer would recurse into this method
		SpecialCRS      *CRS `json:"crs,omitempty"`
	}{
		TwoDBoundingBox: *bb,
		SpecialCRS:      crs,
	})
}

func (bb *TwoDBoundingBox) UnmarshalJSON(data []byte) error {
	if err := defaults.Set(bb); err != nil {
		return err
	}
	specials, err := marshmallow.Unmarshal(data, bb, marshmallow.WithExcludeKnownFieldsFromMap(true))
	if err != nil {
		return err
	}
	if rawCRS, ok := specials["crs"]; ok {
		if bb.CRS, err = unmarshalCRS(rawCRS); err != nil {
			return err
		}
	}
	return validate.Struct(bb)
}

// TwoDPoint is a position in the CRS given elsewhere.
type TwoDPoint [2]float64
