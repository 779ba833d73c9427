package wikidump

import (
	"io"
	"strings"
	"testing"
)

const testDump = `<mediawiki xmlns="http://www.mediawiki.org/xml/export-0.11/" version="0.11" xml:lang="en">
  <siteinfo>
    <sitename>Wikipedia</sitename>
    <base>https://en.wikipedia.org/wiki/Main_Page</base>
    <generator>MediaWiki 1.43.0</generator>
  </siteinfo>
  <page>
    <title>Gravity's Rainbow</title>
    <ns>0</ns>
    <id>1</id>
    <revision>
      <id>11</id>
      <text>A novel. ISBN 0-670-29212-0 first edition.</text>
    </revision>
  </page>
  <page>
    <title>Talk:Gravity's Rainbow</title>
    <ns>1</ns>
    <id>2</id>
    <revision>
      <id>12</id>
      <text>Discussion page, not scannable.</text>
    </revision>
  </page>
  <page>
    <title>GR (novel)</title>
    <ns>0</ns>
    <id>3</id>
    <redirect title="Gravity's Rainbow" />
    <revision>
      <id>13</id>
      <text>#REDIRECT [[Gravity's Rainbow]]</text>
    </revision>
  </page>
  <page>
    <title>Empty page</title>
    <ns>0</ns>
    <id>4</id>
    <revision>
      <id>14</id>
      <text></text>
    </revision>
  </page>
  <page>
    <title>Second novel</title>
    <ns>0</ns>
    <id>5</id>
    <revision>
      <id>15</id>
      <text>No identifiers here at all.</text>
    </revision>
  </page>
</mediawiki>`

func TestReader(t *testing.T) {
	r, err := NewReader(strings.NewReader(testDump))
	if err != nil {
		t.Fatalf("Error creating reader: %v", err)
	}
	if r.SiteInfo.SiteName != "Wikipedia" {
		t.Errorf("Expected sitename Wikipedia, got %q", r.SiteInfo.SiteName)
	}

	var titles []string
	for {
		a, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Error reading article: %v", err)
		}
		titles = append(titles, a.Title)
	}

	want := []string{"Gravity's Rainbow", "Second novel"}
	if len(titles) != len(want) {
		t.Fatalf("Expected %v, got %v", want, titles)
	}
	for i := range want {
		if titles[i] != want[i] {
			t.Errorf("Article %d: expected %q, got %q", i, want[i], titles[i])
		}
	}
}

func TestReaderText(t *testing.T) {
	r, err := NewReader(strings.NewReader(testDump))
	if err != nil {
		t.Fatalf("Error creating reader: %v", err)
	}
	a, err := r.Next()
	if err != nil {
		t.Fatalf("Error reading article: %v", err)
	}
	if !strings.Contains(a.Text, "ISBN 0-670-29212-0") {
		t.Errorf("Expected article text, got %q", a.Text)
	}
}

func TestReaderTruncated(t *testing.T) {
	trunc := testDump[:len(testDump)/2]
	r, err := NewReader(strings.NewReader(trunc))
	if err != nil {
		t.Fatalf("Error creating reader: %v", err)
	}
	for {
		_, err = r.Next()
		if err != nil {
			break
		}
	}
	if err == io.EOF {
		t.Fatalf("Expected a decode error from truncated input, got EOF")
	}
}

func TestReaderNotXML(t *testing.T) {
	_, err := NewReader(strings.NewReader("this is not a dump"))
	if err == nil {
		t.Fatalf("Expected an error from non-XML input")
	}
}

func TestReaderCloseWithoutFile(t *testing.T) {
	r, err := NewReader(strings.NewReader(testDump))
	if err != nil {
		t.Fatalf("Error creating reader: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Error closing: %v", err)
	}
}

func TestOpen(t *testing.T) {
	r, err := Open("testdata/enwiki-20240501-pages-articles-sample.xml.bz2")
	if err != nil {
		t.Fatalf("Error opening dump: %v", err)
	}
	defer r.Close()

	n := 0
	for {
		_, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Error reading article: %v", err)
		}
		n++
	}
	if n != 2 {
		t.Errorf("Expected 2 articles, got %v", n)
	}
}

func TestOpenMissing(t *testing.T) {
	_, err := Open("testdata/nope.xml.bz2")
	if err == nil {
		t.Fatalf("Expected an error opening a missing dump")
	}
}

func TestNamespace(t *testing.T) {
	ns, err := Namespace("testdata/enwiki-20240501-pages-articles-sample.xml.bz2")
	if err != nil {
		t.Fatalf("Error reading namespace: %v", err)
	}
	if ns != "http://www.mediawiki.org/xml/export-0.11/" {
		t.Errorf("Unexpected namespace %q", ns)
	}
}
