package extractor

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/BerylCAtieno/file-forensics-api/internal/models"
)

const (
	corePropsPart   = "docProps/core.xml"
	customPropsPart = "docProps/custom.xml"
	workbookPart    = "xl/workbook.xml"
)

var mainParts = map[models.DocumentKind]string{
	models.DocumentWord:  "word/document.xml",
	models.DocumentSlide: "ppt/presentation.xml",
	models.DocumentSheet: workbookPart,
}

var slidePart = regexp.MustCompile(`^ppt/slides/slide[0-9]+\.xml$`)

// CoreProperties mirrors docProps/core.xml. Element names are matched on local name,
// so the dc/dcterms/cp namespaces need not be spelled out.
type CoreProperties struct {
	XMLName        xml.Name `xml:"coreProperties"`
	Creator        string   `xml:"creator"`
	Title          string   `xml:"title"`
	Created        string   `xml:"created"`
	Modified       string   `xml:"modified"`
	LastModifiedBy string   `xml:"lastModifiedBy"`
	Revision       string   `xml:"revision"`
}

type CustomProperties struct {
	XMLName    xml.Name         `xml:"Properties"`
	Properties []CustomProperty `xml:"property"`
}

type CustomProperty struct {
	Name  string `xml:"name,attr"`
	Value struct {
		Inner string `xml:",innerxml"`
	} `xml:",any"`
}

type Workbook struct {
	XMLName xml.Name `xml:"workbook"`
	Sheets  []struct {
		Name string `xml:"name,attr"`
	} `xml:"sheets>sheet"`
}

// DocumentExtractor reads property parts from an OOXML container.
type DocumentExtractor struct {
	Kind models.DocumentKind
}

func (e DocumentExtractor) Extract(_ context.Context, blob *models.FileBlob) (models.MetadataRecord, error) {
	zipReader, err := zip.NewReader(bytes.NewReader(blob.Data), int64(len(blob.Data)))
	if err != nil {
		return nil, malformed("open container", fmt.Errorf("failed to read %s as ZIP: %w", blob.Ext, err))
	}

	parts := make(map[string]*zip.File, len(zipReader.File))
	for _, file := range zipReader.File {
		parts[file.Name] = file
	}

	if main := mainParts[e.Kind]; parts[main] == nil {
		return nil, malformed("open container", fmt.Errorf("%s not found in %s", main, blob.Ext))
	}

	props := &models.DocumentProperties{Container: e.Kind}

	if f := parts[corePropsPart]; f != nil {
		var core CoreProperties
		if err := readXMLPart(f, &core); err != nil {
			return nil, err
		}
		props.Author = strings.TrimSpace(core.Creator)
		props.Title = core.Title
		props.Created = core.Created
		props.Modified = core.Modified
		props.LastModifiedBy = core.LastModifiedBy
		props.Revision = core.Revision
	}

	if f := parts[customPropsPart]; f != nil {
		var custom CustomProperties
		if err := readXMLPart(f, &custom); err != nil {
			return nil, err
		}
		props.Custom = make(map[string]string, len(custom.Properties))
		for _, p := range custom.Properties {
			props.Custom[p.Name] = strings.TrimSpace(p.Value.Inner)
		}
	}

	switch e.Kind {
	case models.DocumentSlide:
		count := 0
		for name := range parts {
			if slidePart.MatchString(name) {
				count++
			}
		}
		props.SlideCount = &count
	case models.DocumentSheet:
		var wb Workbook
		if err := readXMLPart(parts[workbookPart], &wb); err != nil {
			return nil, err
		}
		for _, s := range wb.Sheets {
			props.Sheets = append(props.Sheets, s.Name)
		}
	}

	return props, nil
}

func readXMLPart(f *zip.File, v any) error {
	rc, err := f.Open()
	if err != nil {
		return malformed("open part", fmt.Errorf("failed to open %s: %w", f.Name, err))
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return malformed("read part", fmt.Errorf("failed to read %s: %w", f.Name, err))
	}

	if err := xml.Unmarshal(data, v); err != nil {
		return malformed("parse part", fmt.Errorf("failed to parse %s: %w", f.Name, err))
	}
	return nil
}
