package render

import (
	"io"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/FocuswithJustin/fla/core/ast"
	ferrors "github.com/FocuswithJustin/fla/core/errors"
)

const dumpFormat = "debug dump"

// Compiled once; Debug's element names are the only schema.
var (
	pairsExpr  = xpath.MustCompile("/" + dumpRoot + "/" + dumpPair)
	keyExpr    = xpath.MustCompile(dumpKey + "/*")
	valuesExpr = xpath.MustCompile(dumpValue + "/*")
)

// ReadDebug rebuilds the tree written by Debug. The result is equal to the
// tree that was dumped, though its strings no longer share a source buffer.
func ReadDebug(r io.Reader, path string) (ast.Root, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, &ferrors.ParseError{Format: dumpFormat, Path: path, Message: err.Error(), Err: err}
	}
	if xmlquery.FindOne(doc, "/"+dumpRoot) == nil {
		return nil, ferrors.NewParse(dumpFormat, path, "missing <"+dumpRoot+"> element")
	}

	var root ast.Root
	for _, pn := range xmlquery.QuerySelectorAll(doc, pairsExpr) {
		pair := &ast.Pair{}
		for _, kn := range xmlquery.QuerySelectorAll(pn, keyExpr) {
			switch kn.Data {
			case dumpText:
				pair.Key = append(pair.Key, ast.Text(kn.InnerText()))
			case dumpCloze:
				pair.Key = append(pair.Key, ast.Cloze(kn.InnerText()))
			default:
				return nil, ferrors.NewParse(dumpFormat, path, "unexpected key element <"+kn.Data+">")
			}
		}
		for _, vn := range xmlquery.QuerySelectorAll(pn, valuesExpr) {
			switch vn.Data {
			case dumpNode:
				tag := vn.SelectAttr(dumpSpeech)
				speech, ok := ast.ParseSpeech(tag)
				if !ok {
					return nil, ferrors.NewParse(dumpFormat, path, "unknown speech "+`"`+tag+`"`)
				}
				pair.Value = append(pair.Value, ast.Node{Speech: speech, Text: vn.InnerText()})
			case dumpText:
				pair.Value = append(pair.Value, ast.Plain(vn.InnerText()))
			default:
				return nil, ferrors.NewParse(dumpFormat, path, "unexpected value element <"+vn.Data+">")
			}
		}
		root = append(root, pair)
	}
	return root, nil
}
