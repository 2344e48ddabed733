package pob

import "encoding/xml"

// document mirrors the slice of the desktop tool's XML we care about:
// character metadata on the Build element and the equipped-items
// collection. Everything else (tree, skills, config) is ignored.
type document struct {
	XMLName xml.Name     `xml:"PathOfBuilding"`
	Build   buildElement `xml:"Build"`
	Items   itemsElement `xml:"Items"`
}

type buildElement struct {
	ClassName   string       `xml:"className,attr"`
	AscendClass string       `xml:"ascendClassName,attr"`
	Level       string       `xml:"level,attr"`
	BuildName   string       `xml:"buildName,attr"`
	League      string       `xml:"league,attr"`
	PlayerStats []playerStat `xml:"PlayerStat"`
}

type playerStat struct {
	Stat  string `xml:"stat,attr"`
	Value string `xml:"value,attr"`
}

type itemsElement struct {
	ActiveItemSet string        `xml:"activeItemSet,attr"`
	Items         []itemElement `xml:"Item"`
	ItemSets      []itemSet     `xml:"ItemSet"`
}

type itemElement struct {
	ID   string `xml:"id,attr"`
	Text string `xml:",chardata"`
}

type itemSet struct {
	ID    string        `xml:"id,attr"`
	Slots []slotElement `xml:"Slot"`
}

type slotElement struct {
	Name   string `xml:"name,attr"`
	ItemID string `xml:"itemId,attr"`
}
