package app

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitKafkaProducer_EmptyBrokers(t *testing.T) {
	for _, brokers := range []string{"", " , ,"} {
		producer, err := initKafkaProducer(brokers, nullLogger())
		require.NoError(t, err)
		require.Nil(t, producer)
	}
}

func TestInitKafkaProducer_InvalidBrokers(t *testing.T) {
	// Несуществующие brokers: ошибка, но без паники и без producer.
	for _, brokers := range []string{
		"invalid-broker:9999",
		"broker1:9092,broker2:9092",
		"broker1:9092, broker2:9092 ",
	} {
		producer, err := initKafkaProducer(brokers, nullLogger())
		require.Error(t, err, brokers)
		require.Nil(t, producer, brokers)
	}
}

func TestSplitBrokers(t *testing.T) {
	require.Equal(t, []string{"a:9092", "b:9092"}, splitBrokers(" a:9092 ,, b:9092"))
	require.Nil(t, splitBrokers(""))
}

func TestCloseKafka_NilProducer(_ *testing.T) {
	closeKafka(nil, nullLogger())
}
