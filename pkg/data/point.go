package data

import (
	"bytes"
	"time"
)

// Point is a single reading emitted by the simulator: a measurement name,
// tag and field sets kept in insertion order, and a timestamp.
type Point struct {
	measurementName []byte
	tagKeys         [][]byte
	tagValues       []interface{}
	fieldKeys       [][]byte
	fieldValues     []interface{}
	timestamp       *time.Time
}

func NewPoint() *Point {
	return &Point{
		tagKeys:     make([][]byte, 0),
		tagValues:   make([]interface{}, 0),
		fieldKeys:   make([][]byte, 0),
		fieldValues: make([]interface{}, 0),
	}
}

func (p *Point) Reset() {
	p.measurementName = nil
	p.tagKeys = p.tagKeys[:0]
	p.tagValues = p.tagValues[:0]
	p.fieldKeys = p.fieldKeys[:0]
	p.fieldValues = p.fieldValues[:0]
	p.timestamp = nil
}

func (p *Point) SetTimestamp(t *time.Time) {
	p.timestamp = t
}

func (p *Point) Timestamp() *time.Time {
	return p.timestamp
}

func (p *Point) SetMeasurementName(s []byte) {
	p.measurementName = s
}

func (p *Point) MeasurementName() []byte {
	return p.measurementName
}

func (p *Point) AppendTag(key []byte, value interface{}) {
	p.tagKeys = append(p.tagKeys, key)
	p.tagValues = append(p.tagValues, value)
}

func (p *Point) AppendField(key []byte, value interface{}) {
	p.fieldKeys = append(p.fieldKeys, key)
	p.fieldValues = append(p.fieldValues, value)
}

func (p *Point) TagKeys() [][]byte {
	return p.tagKeys
}

func (p *Point) TagValues() []interface{} {
	return p.tagValues
}

func (p *Point) FieldKeys() [][]byte {
	return p.fieldKeys
}

func (p *Point) FieldValues() []interface{} {
	return p.fieldValues
}

func (p *Point) GetTagValue(key []byte) interface{} {
	for i, k := range p.tagKeys {
		if bytes.Equal(k, key) {
			return p.tagValues[i]
		}
	}
	return nil
}

func (p *Point) GetFieldValue(key []byte) interface{} {
	for i, k := range p.fieldKeys {
		if bytes.Equal(k, key) {
			return p.fieldValues[i]
		}
	}
	return nil
}

// LoadedPoint wraps a target-specific representation of one or more readings
// on its way through the loader.
type LoadedPoint struct {
	Data interface{}
}

func NewLoadedPoint(data interface{}) LoadedPoint {
	return LoadedPoint{Data: data}
}
