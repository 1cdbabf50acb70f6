package render

import (
	"encoding/xml"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/FocuswithJustin/fla/core/ast"
	ferrors "github.com/FocuswithJustin/fla/core/errors"
)

// Element and attribute names of the debug dump.
const (
	dumpRoot   = "root"
	dumpPair   = "pair"
	dumpKey    = "key"
	dumpValue  = "value"
	dumpText   = "text"
	dumpCloze  = "cloze"
	dumpNode   = "node"
	dumpSpeech = "speech"
)

type dumpDoc struct {
	XMLName xml.Name       `xml:"root"`
	Pairs   []dumpPairElem `xml:"pair"`
}

type dumpPairElem struct {
	Key   []dumpLeaf `xml:"key>any"`
	Value []dumpLeaf `xml:"value>any"`
}

// dumpLeaf is a <text>, <cloze> or <node> element; XMLName picks which.
type dumpLeaf struct {
	XMLName xml.Name
	Speech  string `xml:"speech,attr,omitempty"`
	Body    string `xml:",chardata"`
}

// Debug writes a complete XML dump of root. The same tree always produces
// the same bytes, and ReadDebug rebuilds the tree from them.
func Debug(root ast.Root, w io.Writer) error {
	doc := dumpDoc{}
	for i, pair := range root.Pairs() {
		if err := checkDumpable(i+1, pair); err != nil {
			return err
		}
		dp := dumpPairElem{
			Key:   make([]dumpLeaf, 0, len(pair.Key)),
			Value: make([]dumpLeaf, 0, len(pair.Value)),
		}
		for _, k := range pair.Key {
			name := dumpText
			if k.Kind == ast.KeyCloze {
				name = dumpCloze
			}
			dp.Key = append(dp.Key, dumpLeaf{XMLName: xml.Name{Local: name}, Body: k.Text})
		}
		for _, v := range pair.Value {
			switch v := v.(type) {
			case ast.Node:
				dp.Value = append(dp.Value, dumpLeaf{
					XMLName: xml.Name{Local: dumpNode},
					Speech:  v.Speech.String(),
					Body:    v.Text,
				})
			case ast.Plain:
				dp.Value = append(dp.Value, dumpLeaf{XMLName: xml.Name{Local: dumpText}, Body: string(v)})
			}
		}
		doc.Pairs = append(doc.Pairs, dp)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return ferrors.NewIO("write", "", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return ferrors.NewIO("write", "", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return ferrors.NewIO("write", "", err)
	}
	return nil
}

// checkDumpable rejects pairs the dump could not read back as written:
// nodes without a known speech tag and payloads holding characters XML
// cannot carry, which encoding/xml would replace.
func checkDumpable(index int, pair *ast.Pair) error {
	for _, k := range pair.Key {
		if r, ok := firstNonXML(k.Text); !ok {
			return ferrors.NewValidation("debug", fmt.Sprintf("pair %d: key holds %U, which XML cannot represent", index, r))
		}
	}
	for _, v := range pair.Value {
		var payload string
		switch v := v.(type) {
		case ast.Node:
			if !v.Speech.Valid() {
				return ferrors.NewValidation("debug", fmt.Sprintf("pair %d: node has no speech tag (%v)", index, v.Speech))
			}
			payload = v.Text
		case ast.Plain:
			payload = string(v)
		}
		if r, ok := firstNonXML(payload); !ok {
			return ferrors.NewValidation("debug", fmt.Sprintf("pair %d: value holds %U, which XML cannot represent", index, r))
		}
	}
	return nil
}

func firstNonXML(s string) (rune, bool) {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == utf8.RuneError && size == 1:
			return r, false
		case r == '\t', r == '\n', r == '\r':
		case r < 0x20, r == 0xFFFE, r == 0xFFFF:
			return r, false
		}
		i += size
	}
	return 0, true
}
