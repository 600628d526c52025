// Package cachefile defines the XML documents read by the MSN weather gadget:
// the weather cache file, the weatherdata document embedded in it, and the
// global cache cleanup marker.
package cachefile

import (
	"encoding/xml"
	"fmt"
	"os"
)

const (
	Version = "1.0"

	NamespaceXSD = "http://www.w3.org/2001/XMLSchema"
	NamespaceXSI = "http://www.w3.org/2001/XMLSchema-instance"
)

// CacheFile is the root of the main weather cache file. Data holds the
// serialized weatherdata document as escaped text, not as child elements.
type CacheFile struct {
	XMLName    xml.Name `xml:"CacheFile"`
	Version    string   `xml:"Version"`
	SavedTime  int64    `xml:"SavedTime"`
	ExpiryTime int64    `xml:"ExpiryTime"`
	Data       string   `xml:"Data"`
}

// CacheCleanup is the global cleanup marker. Timestamp is the last time the
// host may garbage-collect gadget caches.
type CacheCleanup struct {
	XMLName   xml.Name `xml:"CacheCleanup"`
	Timestamp int64    `xml:"Timestamp"`
}

// WeatherData is the document embedded in CacheFile.Data.
type WeatherData struct {
	XMLName xml.Name `xml:"weatherdata"`
	XSD     string   `xml:"xmlns:xsd,attr"`
	XSI     string   `xml:"xmlns:xsi,attr"`
	Weather Weather  `xml:"weather"`
}

// NewWeatherData returns a document with the schema namespaces declared.
func NewWeatherData(w Weather) WeatherData {
	return WeatherData{XSD: NamespaceXSD, XSI: NamespaceXSI, Weather: w}
}

// Weather describes one location. Attribute order follows the gadget's own files.
type Weather struct {
	LocationCode        string     `xml:"weatherlocationcode,attr"`
	LocationName        string     `xml:"weatherlocationname,attr"`
	URL                 string     `xml:"url,attr"`
	ImageRelativeURL    string     `xml:"imagerelativeurl,attr"`
	DegreeType          string     `xml:"degreetype,attr"`
	Provider            string     `xml:"provider,attr"`
	Attribution         string     `xml:"attribution,attr"`
	Attribution2        string     `xml:"attribution2,attr"`
	Lat                 string     `xml:"lat,attr"`
	Long                string     `xml:"long,attr"`
	Timezone            string     `xml:"timezone,attr"`
	Alert               string     `xml:"alert,attr"`
	EntityID            string     `xml:"entityid,attr"`
	EncodedLocationName string     `xml:"encodedlocationname,attr"`
	Current             Current    `xml:"current"`
	Forecasts           []Forecast `xml:"forecast"`
	Toolbar             Toolbar    `xml:"toolbar"`
}

type Current struct {
	Temperature      string `xml:"temperature,attr"`
	SkyCode          string `xml:"skycode,attr"`
	SkyText          string `xml:"skytext,attr"`
	Date             string `xml:"date,attr"`
	ObservationTime  string `xml:"observationtime,attr"`
	ObservationPoint string `xml:"observationpoint,attr"`
	FeelsLike        string `xml:"feelslike,attr"`
	Humidity         string `xml:"humidity,attr"`
	WindDisplay      string `xml:"winddisplay,attr"`
	Day              string `xml:"day,attr"`
	ShortDay         string `xml:"shortday,attr"`
	WindSpeed        string `xml:"windspeed,attr"`
}

type Forecast struct {
	Low        string `xml:"low,attr"`
	High       string `xml:"high,attr"`
	SkyCodeDay string `xml:"skycodeday,attr"`
	SkyTextDay string `xml:"skytextday,attr"`
	Date       string `xml:"date,attr"`
	Day        string `xml:"day,attr"`
	ShortDay   string `xml:"shortday,attr"`
	Precip     string `xml:"precip,attr"`
}

type Toolbar struct {
	TimeWindow string `xml:"timewindow,attr"`
	MinVersion string `xml:"minversion,attr"`
}

// DefaultToolbar is the marker the gadget expects after the forecasts.
var DefaultToolbar = Toolbar{TimeWindow: "60", MinVersion: "1.0.1965.0"}

// Marshal serializes a document without an XML declaration.
func Marshal(v interface{}) ([]byte, error) {
	out, err := xml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", v, err)
	}
	return out, nil
}

// EncodeData serializes wd for embedding as CacheFile.Data.
func EncodeData(wd WeatherData) (string, error) {
	out, err := Marshal(wd)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// weatherDataIn is WeatherData as the decoder reports it: a namespace
// declaration arrives as Name{Space: "xmlns", Local: "xsd"}, which the
// "xmlns:xsd" tag used for encoding never matches.
type weatherDataIn struct {
	XMLName xml.Name `xml:"weatherdata"`
	XSD     string   `xml:"xmlns xsd,attr"`
	XSI     string   `xml:"xmlns xsi,attr"`
	Weather Weather  `xml:"weather"`
}

// DecodeData parses CacheFile.Data back into a WeatherData document,
// namespace declarations included.
func DecodeData(data string) (WeatherData, error) {
	var in weatherDataIn
	if err := xml.Unmarshal([]byte(data), &in); err != nil {
		return WeatherData{}, fmt.Errorf("unmarshal weatherdata: %w", err)
	}
	return WeatherData{XMLName: in.XMLName, XSD: in.XSD, XSI: in.XSI, Weather: in.Weather}, nil
}

// WriteFile marshals v and overwrites path with it, returning the bytes written.
// The write truncates in place; a failure part way can leave a partial file.
func WriteFile(path string, v interface{}) (int, error) {
	out, err := Marshal(v)
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	return len(out), nil
}
