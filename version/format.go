// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Format renders v using a format code.
//
// A code is a sequence of tokens. A token is a run of one repeated letter:
//
//	F        canonical form (same as String)
//	G        group version as yyyy-MM-dd
//	GG       group version followed by -status
//	y yy yyyy  year of the group version
//	M MM     month number; MMM and MMMM give the month name
//	d dd     day of month
//	V        major
//	VV       major.minor
//	VVV      major.minor[-status]
//	VVVV     [group.]major.minor[-status]
//	P PP ... major padded with zeros to the run length
//	v        minor
//	p pp ... minor padded with zeros to the run length
//	S        status
//	SS       -status
//
// Text between single quotes and any non-letter character is copied as is.
// A backslash copies the next character. Unknown tokens render nothing, as
// do tokens whose component is absent. An empty code is the same as "F".
func (v Version) Format(code string) string {
	if code == "" || v.neutral || v.IsZero() {
		return v.String()
	}

	var b strings.Builder
	for i := 0; i < len(code); {
		c := code[i]
		switch {
		case c == '\\':
			if i+1 < len(code) {
				b.WriteByte(code[i+1])
			}
			i += 2
		case c == '\'':
			end := strings.IndexByte(code[i+1:], '\'')
			if end < 0 {
				b.WriteString(code[i+1:])
				i = len(code)
				continue
			}
			b.WriteString(code[i+1 : i+1+end])
			i += end + 2
		case isLetter(c):
			j := i
			for j < len(code) && code[j] == c {
				j++
			}
			v.writeToken(&b, c, j-i)
			i = j
		default:
			b.WriteByte(c)
			i++
		}
	}

	return b.String()
}

func (v Version) writeToken(b *strings.Builder, c byte, n int) {
	hasGroup := !v.group.IsZero()

	switch c {
	case 'F':
		b.WriteString(v.String())
	case 'G':
		if hasGroup {
			b.WriteString(v.group.Format(dateLayout))
		}
		if n > 1 {
			v.writeStatus(b, true)
		}
	case 'y':
		if !hasGroup {
			return
		}
		switch n {
		case 1:
			b.WriteString(strconv.Itoa(v.group.Year()))
		case 2:
			fmt.Fprintf(b, "%02d", v.group.Year()%100)
		default:
			fmt.Fprintf(b, "%0*d", n, v.group.Year())
		}
	case 'M':
		if !hasGroup {
			return
		}
		switch n {
		case 1:
			b.WriteString(strconv.Itoa(int(v.group.Month())))
		case 2:
			fmt.Fprintf(b, "%02d", int(v.group.Month()))
		case 3:
			b.WriteString(v.group.Month().String()[:3])
		default:
			b.WriteString(v.group.Month().String())
		}
	case 'd':
		if !hasGroup {
			return
		}
		if n == 1 {
			b.WriteString(strconv.Itoa(v.group.Day()))
		} else {
			fmt.Fprintf(b, "%02d", v.group.Day())
		}
	case 'V':
		v.writeNumeric(b, n)
	case 'P':
		if v.hasMajor {
			fmt.Fprintf(b, "%0*d", n, v.major)
		}
	case 'v':
		if v.hasMajor {
			b.WriteString(strconv.Itoa(v.minor))
		}
	case 'p':
		if v.hasMajor {
			fmt.Fprintf(b, "%0*d", n, v.minor)
		}
	case 'S':
		v.writeStatus(b, n > 1)
	}
}

func (v Version) writeNumeric(b *strings.Builder, n int) {
	if n >= 4 && !v.group.IsZero() {
		b.WriteString(v.group.Format(dateLayout))
		if v.hasMajor {
			b.WriteByte('.')
		}
	}
	if v.hasMajor {
		b.WriteString(strconv.Itoa(v.major))
		if n >= 2 {
			b.WriteByte('.')
			b.WriteString(strconv.Itoa(v.minor))
		}
	}
	if n >= 3 {
		v.writeStatus(b, true)
	}
}

func (v Version) writeStatus(b *strings.Builder, separator bool) {
	if v.status == "" {
		return
	}
	if separator {
		b.WriteByte('-')
	}
	b.WriteString(v.status)
}
