package docread

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"log"
	"strings"
)

// readDOCX pulls paragraph text out of the WordprocessingML part of a .docx
// archive, one line per paragraph.
func readDOCX(path string) string {
	archive, err := zip.OpenReader(path)
	if err != nil {
		log.Printf("docread: open docx %s failed: %v", path, err)
		return ""
	}
	defer archive.Close()

	for _, file := range archive.File {
		if file.Name != "word/document.xml" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			log.Printf("docread: open docx part of %s failed: %v", path, err)
			return ""
		}
		defer rc.Close()
		return extractParagraphs(rc, path)
	}
	log.Printf("docread: %s has no word/document.xml part", path)
	return ""
}

func extractParagraphs(r io.Reader, path string) string {
	decoder := xml.NewDecoder(r)

	var out strings.Builder
	var paragraph strings.Builder
	inText := false
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("docread: parse docx xml of %s failed: %v", path, err)
			return ""
		}

		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.CharData:
			if inText {
				paragraph.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				out.WriteString(paragraph.String())
				out.WriteString("\n")
				paragraph.Reset()
			}
		}
	}
	return strings.TrimRight(out.String(), "\n")
}
