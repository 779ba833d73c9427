package wikidump

import (
	"compress/bzip2"
	"encoding/xml"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// The toplevel site info describing basic dump properties.
type SiteInfo struct {
	SiteName  string `xml:"sitename"`
	Base      string `xml:"base"`
	Generator string `xml:"generator"`
}

type redirect struct {
	Title string `xml:"title,attr"`
}

// A page as it appears in the dump. Only the parts the scanner needs
// are decoded.
type page struct {
	Title    string    `xml:"title"`
	Ns       int       `xml:"ns"`
	Redirect *redirect `xml:"redirect"`
	Revision struct {
		Text string `xml:"text"`
	} `xml:"revision"`
}

// An Article is one main-namespace page worth scanning.
type Article struct {
	Title string
	Text  string
}

// A Reader emits the scannable articles from one dump, in order.
// Forward-only; open a fresh one to re-scan.
type Reader struct {
	// The toplevel site info.
	SiteInfo SiteInfo

	x *xml.Decoder
	c io.Closer
}

// NewReader gets a dump reader from the given uncompressed XML
// stream.
func NewReader(r io.Reader) (*Reader, error) {
	d := xml.NewDecoder(r)

	// Position past the root element so Decode sees siteinfo next.
	for {
		t, err := d.Token()
		if err != nil {
			return nil, err
		}
		if _, ok := t.(xml.StartElement); ok {
			break
		}
	}

	si := SiteInfo{}
	if err := d.Decode(&si); err != nil {
		return nil, err
	}

	return &Reader{SiteInfo: si, x: d}, nil
}

// Open gets a dump reader for a bzip2-compressed dump file.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	rv, err := NewReader(bzip2.NewReader(f))
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "reading dump %v", path)
	}
	rv.c = f
	return rv, nil
}

// Next gets the next article from the dump, skipping redirects and
// anything outside the main namespace. Returns io.EOF at the end of
// the dump.
func (r *Reader) Next() (Article, error) {
	for {
		p := page{}
		if err := r.x.Decode(&p); err != nil {
			return Article{}, err
		}
		if p.Ns != 0 || p.Redirect != nil {
			continue
		}
		if p.Title == "" || p.Revision.Text == "" {
			continue
		}
		return Article{Title: p.Title, Text: p.Revision.Text}, nil
	}
}

// Close releases the underlying file, if any.
func (r *Reader) Close() error {
	if r.c == nil {
		return nil
	}
	return r.c.Close()
}

// Namespace reports the xmlns URI a dump file declares, from the
// first few KB of the decompressed stream. Empty when none is found.
func Namespace(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf := make([]byte, 4096)
	n, err := io.ReadFull(bzip2.NewReader(f), buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", errors.Wrapf(err, "reading dump %v", path)
	}
	head := string(buf[:n])

	i := strings.Index(head, `xmlns="`)
	if i < 0 {
		return "", nil
	}
	head = head[i+len(`xmlns="`):]
	j := strings.IndexByte(head, '"')
	if j < 0 {
		return "", nil
	}
	return head[:j], nil
}
