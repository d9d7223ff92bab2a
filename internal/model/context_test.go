package model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExchangeWindowKeepsNewestAtCapacity(t *testing.T) {
	w := NewExchangeWindow(3)

	for i := 1; i <= 5; i++ {
		w.Append(Exchange{UserText: fmt.Sprintf("u%d", i)})
	}

	require.Equal(t, 3, w.Len())

	last := w.Last(3)
	require.Len(t, last, 3)
	// 时间顺序：旧 → 新
	require.Equal(t, "u3", last[0].UserText)
	require.Equal(t, "u4", last[1].UserText)
	require.Equal(t, "u5", last[2].UserText)
}

func TestExchangeWindowLastSubset(t *testing.T) {
	w := NewExchangeWindow(5)
	for i := 1; i <= 4; i++ {
		w.Append(Exchange{UserText: fmt.Sprintf("u%d", i)})
	}

	last := w.Last(2)
	require.Len(t, last, 2)
	require.Equal(t, "u3", last[0].UserText)
	require.Equal(t, "u4", last[1].UserText)

	// n 超过持有量时返回全部
	require.Len(t, w.Last(10), 4)
}

func TestExchangeWindowEmpty(t *testing.T) {
	w := NewExchangeWindow(4)

	require.Zero(t, w.Len())
	require.Empty(t, w.Last(3))
}
