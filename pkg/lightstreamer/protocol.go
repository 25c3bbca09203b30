package lightstreamer

import (
	"net/url"
	"strconv"
	"strings"
)

// Subprotocol is the WebSocket subprotocol announced on dial.
const Subprotocol = "TLCP-2.2.0.lightstreamer.com"

const (
	reqWSOK          = "wsok"
	reqCreateSession = "create_session"
	reqControl       = "control"

	opAdd    = "add"
	opDelete = "delete"
)

// Server message tags.
const (
	tagWSOK     = "WSOK"
	tagCONOK    = "CONOK"
	tagCONERR   = "CONERR"
	tagREQOK    = "REQOK"
	tagREQERR   = "REQERR"
	tagERROR    = "ERROR"
	tagSUBOK    = "SUBOK"
	tagSUBCMD   = "SUBCMD"
	tagUNSUB    = "UNSUB"
	tagUpdate   = "U"
	tagEOS      = "EOS"
	tagCS       = "CS"
	tagOV       = "OV"
	tagCONF     = "CONF"
	tagEND      = "END"
	tagLOOP     = "LOOP"
	tagPROBE    = "PROBE"
	tagNOOP     = "NOOP"
	tagSYNC     = "SYNC"
	tagSERVNAME = "SERVNAME"
	tagCLIENTIP = "CLIENTIP"
	tagCONS     = "CONS"
	tagPROG     = "PROG"
	tagMSGDONE  = "MSGDONE"
	tagMSGFAIL  = "MSGFAIL"
)

type param struct {
	key   string
	value string
}

// encodeRequest renders a request line followed by its form-encoded parameters.
func encodeRequest(name string, params ...param) []byte {
	var b strings.Builder
	b.WriteString(name)
	b.WriteString("\r\n")
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(p.key)
		b.WriteByte('=')
		b.WriteString(escape(p.value))
	}
	return []byte(b.String())
}

func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// splitLines breaks a WebSocket frame into protocol lines.
func splitLines(frame string) []string {
	raw := strings.Split(frame, "\r\n")
	lines := raw[:0]
	for _, line := range raw {
		if len(line) != 0 {
			lines = append(lines, line)
		}
	}
	return lines
}

// splitMessage returns the tag and at most n comma separated arguments.
// The last argument keeps any remaining commas.
func splitMessage(line string, n int) (string, []string) {
	tag, rest, found := strings.Cut(line, ",")
	if !found {
		return tag, nil
	}
	if n <= 0 {
		return tag, nil
	}
	return tag, strings.SplitN(rest, ",", n)
}

func unescape(s string) string {
	v, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return v
}

func parseServerError(sentinel error, args []string) *ServerError {
	e := &ServerError{Sentinel: sentinel}
	if len(args) > 0 {
		e.Code, _ = strconv.Atoi(args[0])
	}
	if len(args) > 1 {
		e.Message = unescape(args[1])
	}
	return e
}

// fieldValue is the last known value of a field. null marks "#" values.
type fieldValue struct {
	value string
	null  bool
}

// applyUpdate decodes the pipe separated values of a U message into state and
// returns the indexes of the fields that changed.
//
// Markers: empty = unchanged, "#" = null, "$" = empty string, "^N" = N unchanged fields.
func applyUpdate(state []fieldValue, payload string) ([]int, error) {
	changed := make([]int, 0, len(state))
	idx := 0
	for _, tok := range strings.Split(payload, "|") {
		switch {
		case len(tok) == 0:
			idx++
			continue
		case tok[0] == '^':
			n, err := strconv.Atoi(tok[1:])
			if err != nil || n <= 0 {
				return nil, ErrProtocol
			}
			idx += n
			continue
		}

		if idx >= len(state) {
			return nil, ErrProtocol
		}
		switch tok {
		case "#":
			state[idx] = fieldValue{null: true}
		case "$":
			state[idx] = fieldValue{}
		default:
			state[idx] = fieldValue{value: unescape(tok)}
		}
		changed = append(changed, idx)
		idx++
	}
	if idx != len(state) {
		return nil, ErrProtocol
	}
	return changed, nil
}
