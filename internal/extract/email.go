package extract

import (
	"bytes"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"

	"github.com/JaimeStill/courier/internal/routing"
)

var wordDecoder = &mime.WordDecoder{}

// Email parses an RFC 5322 message. The body is the first text/plain part
// that is not an attachment, transfer-decoded. When the message headers
// cannot be parsed the whole input is used as the body.
func (e *Extractor) Email(source string, data []byte) routing.EmailFields {
	msg, err := mail.ReadMessage(bytes.NewReader(data))
	if err != nil {
		e.logger.Warn("email header parse failed", "source", source, "error", err)
		return routing.EmailFields{Body: strings.TrimSpace(e.Text(data).Value)}
	}

	fields := routing.EmailFields{
		Sender:     decodeHeader(msg.Header.Get("From")),
		Subject:    decodeHeader(msg.Header.Get("Subject")),
		Recipients: recipients(msg.Header.Get("To")),
	}

	body, err := textBody(msg.Header.Get("Content-Type"), msg.Header.Get("Content-Transfer-Encoding"), msg.Body)
	if err != nil {
		e.logger.Warn("email body decode failed", "source", source, "error", err)
	}
	fields.Body = strings.TrimSpace(body)

	return fields
}

func decodeHeader(v string) string {
	decoded, err := wordDecoder.DecodeHeader(v)
	if err != nil {
		return strings.TrimSpace(v)
	}
	return strings.TrimSpace(decoded)
}

func recipients(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}

	list, err := mail.ParseAddressList(v)
	if err != nil {
		return []string{strings.TrimSpace(v)}
	}

	out := make([]string, len(list))
	for i, addr := range list {
		out[i] = addr.String()
	}
	return out
}

func textBody(contentType, encoding string, r io.Reader) (string, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = "text/plain"
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		return multipartBody(params["boundary"], r)
	}

	if mediaType != "text/plain" {
		return "", nil
	}

	data, err := io.ReadAll(decodeTransfer(encoding, r))
	return string(data), err
}

func multipartBody(boundary string, r io.Reader) (string, error) {
	mr := multipart.NewReader(r, boundary)
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return "", nil
		}
		if err != nil {
			return "", err
		}

		disposition := part.Header.Get("Content-Disposition")
		if strings.HasPrefix(strings.ToLower(disposition), "attachment") {
			continue
		}

		body, err := textBody(part.Header.Get("Content-Type"), part.Header.Get("Content-Transfer-Encoding"), part)
		if err != nil {
			return body, err
		}
		if strings.TrimSpace(body) != "" {
			return body, nil
		}
	}
}

func decodeTransfer(encoding string, r io.Reader) io.Reader {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "base64":
		return base64.NewDecoder(base64.StdEncoding, r)
	case "quoted-printable":
		return quotedprintable.NewReader(r)
	}
	return r
}
