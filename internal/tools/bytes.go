package tools

//Source https://github.com/dustin/go-humanize/blob/master/bytes.go
//       https://github.com/dustin/go-humanize/blob/master/comma.go

import (
    "fmt"
    "math"
    "strconv"
    "strings"
    "unicode"
    "crypto/sha1"
    "encoding/hex"
)

// IEC Sizes.
// kibis of bits
const (
    Byte = 1 << (iota * 10)
    KiByte
    MiByte
    GiByte
    TiByte
    PiByte
    EiByte
)

// SI Sizes.
const (
    IByte = 1
    KByte = IByte * 1000
    MByte = KByte * 1000
    GByte = MByte * 1000
    TByte = GByte * 1000
    PByte = TByte * 1000
    EByte = PByte * 1000
)

var bytesSizeTable = map[string]uint64{
    "b":   Byte,
    "kib": KiByte,
    "kb":  KByte,
    "mib": MiByte,
    "mb":  MByte,
    "gib": GiByte,
    "gb":  GByte,
    "tib": TiByte,
    "tb":  TByte,
    "pib": PiByte,
    "pb":  PByte,
    "eib": EiByte,
    "eb":  EByte,
    // Without suffix
    "":   Byte,
    "ki": KiByte,
    "k":  KByte,
    "mi": MiByte,
    "m":  MByte,
    "gi": GiByte,
    "g":  GByte,
    "ti": TiByte,
    "t":  TByte,
    "pi": PiByte,
    "p":  PByte,
    "ei": EiByte,
    "e":  EByte,
}

func logn(n, b float64) float64 {
    return math.Log(n) / math.Log(b)
}

func HumanateBytes(s uint64, base float64, sizes []string) string {
    if s < 10 {
        return fmt.Sprintf("%d B", s)
    }
    l := float64(len(sizes))
    e := math.Floor(logn(float64(s), base))
    if e >= l {
        e = l - 1.0
    }
    suffix := sizes[int(e)]
    val := math.Floor(float64(s)/math.Pow(base, e)*10+0.5) / 10
    if val > 1000 {
        return fmt.Sprintf("%s %s", FormatInt64Comma(int64(val)), suffix)
    }else {
        f := "%.0f %s"
        if val < 10 {
            f = "%.1f %s"
        }
        return fmt.Sprintf(f, val, suffix)
    }

}


// IBytes produces a human readable representation of an IEC size.
//
// IBytes(82854982) -> 79 MiB
func IBytes(s uint64) string {
    sizes := []string{"B", "KiB", "MiB", "GiB", "TiB", "PiB", "EiB"}
    return HumanateBytes(s, 1024, sizes)
}

// ParseBytes parses a string representation of bytes into the number
// of bytes it represents.
//
// See Also: IBytes.
//
// ParseBytes("42 MB") -> 42000000, nil
// ParseBytes("42 mib") -> 44040192, nil
func ParseBytes(s string) (uint64, error) {
    lastDigit := 0
    hasComma := false
    for _, r := range s {
        if !(unicode.IsDigit(r) || r == '.' || r == ',') {
            break
        }
        if r == ',' {
            hasComma = true
        }
        lastDigit++
    }

    num := s[:lastDigit]
    if hasComma {
        num = strings.Replace(num, ",", "", -1)
    }

    f, err := strconv.ParseFloat(num, 64)
    if err != nil {
        return 0, err
    }

    extra := strings.ToLower(strings.TrimSpace(s[lastDigit:]))
    if m, ok := bytesSizeTable[extra]; ok {
        f *= float64(m)
        if f >= math.MaxUint64 {
            return 0, fmt.Errorf("too large: %v", s)
        }
        return uint64(f), nil
    }

    return 0, fmt.Errorf("unhandled size name: %v", extra)
}


// GetHash returns the hex sha1 of data, used as file fingerprint
func GetHash(data []byte) string {
    h := sha1.New()
    h.Write(data)
    return hex.EncodeToString(h.Sum(nil))
}

// FormatIntComma produces a string form of the given number in base 10 with
// commas after every three orders of magnitude.
//
// e.g. FormatIntComma(834142) -> 834,142
func FormatIntComma(v int) string {
    return FormatInt64Comma(int64(v))
}

// FormatInt64Comma is FormatIntComma for int64 values
func FormatInt64Comma(v int64) string {
    sign := ""

    // Min int64 can't be negated to a usable value, so it has to be special cased.
    if v == math.MinInt64 {
        return "-9,223,372,036,854,775,808"
    }

    if v < 0 {
        sign = "-"
        v = 0 - v
    }

    parts := []string{"", "", "", "", "", "", ""}
    j := len(parts) - 1

    for v > 999 {
        parts[j] = strconv.FormatInt(v%1000, 10)
        switch len(parts[j]) {
        case 2:
            parts[j] = "0" + parts[j]
        case 1:
            parts[j] = "00" + parts[j]
        }
        v = v / 1000
        j--
    }
    parts[j] = strconv.Itoa(int(v))
    return sign + strings.Join(parts[j:], ",")
}
