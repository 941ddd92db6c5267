// Package sse reads and writes the text/event-stream wire format.
package sse

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
)

const CONTENT_TYPE = "text/event-stream"

type Event struct {
	Id   string
	Name string
	Data []byte
}

type Encoder struct {
	w io.Writer
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode writes one event frame. Multi-line data is split over several data
// fields so the reader can join it back.
func (e *Encoder) Encode(event Event) error {
	var frame bytes.Buffer
	if event.Id != "" {
		fmt.Fprintf(&frame, "id: %s\n", event.Id)
	}
	if event.Name != "" {
		fmt.Fprintf(&frame, "event: %s\n", event.Name)
	}
	for _, line := range bytes.Split(event.Data, []byte("\n")) {
		frame.WriteString("data: ")
		frame.Write(line)
		frame.WriteByte('\n')
	}
	frame.WriteByte('\n')
	_, err := e.w.Write(frame.Bytes())
	return err
}

// Comment writes a comment frame, which readers ignore. Used as keep-alive.
func (e *Encoder) Comment(text string) error {
	_, err := fmt.Fprintf(e.w, ": %s\n\n", text)
	return err
}

type Decoder struct {
	r *bufio.Reader
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// Decode returns the next event carrying data. Comments and frames without
// data are skipped. io.EOF is returned once the stream ends between frames.
func (d *Decoder) Decode() (Event, error) {
	var event Event
	var data [][]byte
	hasData := false
	for {
		line, err := d.r.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			if err == io.EOF && hasData {
				return event, io.ErrUnexpectedEOF
			}
			return event, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			if hasData {
				event.Data = bytes.Join(data, []byte("\n"))
				return event, nil
			}
			event = Event{}
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}
		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "event":
			event.Name = value
		case "id":
			event.Id = value
		case "data":
			data = append(data, []byte(value))
			hasData = true
		}
	}
}
